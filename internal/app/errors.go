package service

import "errors"

// Sentinel error kinds for the service.
var (
	ErrNotLoaded = errors.New("dataset not loaded")
	ErrNoSource  = errors.New("no dataset source configured")
)
