package store

import "errors"

// Domain errors for the store package.
var (
	// ErrNoPath is returned by NewFile when the path is empty.
	ErrNoPath = errors.New("store: data file path is required")

	// ErrNilHome is returned by Save when given a nil home.
	ErrNilHome = errors.New("store: home is nil")
)
