package source

import "errors"

// Sentinel kinds for dataset source errors.
var (
	ErrUnsupportedLocation = errors.New("unsupported dataset location")
	ErrFetch               = errors.New("dataset fetch failed")
)
