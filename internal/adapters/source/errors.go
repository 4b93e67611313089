package source

import "errors"

// Sentinel kinds for dataset loading.
var (
	ErrFetch  = errors.New("dataset fetch failed")
	ErrDecode = errors.New("dataset decode failed")
)
