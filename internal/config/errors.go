package config

import (
	"errors"
	"fmt"
)

// Sentinel kinds for configuration failures.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// ErrUnknownCacheBackend also matches ErrInvalidConfig.
	ErrUnknownCacheBackend = fmt.Errorf("%w: unknown cache backend", ErrInvalidConfig)
)
