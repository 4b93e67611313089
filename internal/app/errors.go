package service

import "errors"

var (
	// ErrNotStarted is returned by accessors called before Start succeeded.
	ErrNotStarted = errors.New("service not started")

	// ErrMalformedRecord marks a record whose time or year cannot be placed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrPointNotFound is returned for a mark index outside the plot.
	ErrPointNotFound = errors.New("point not found")

	// ErrUnknownKind is returned for an unsupported rendering kind.
	ErrUnknownKind = errors.New("unknown render kind")
)
