package energy

import "errors"

// Domain errors for the energy package.
var (
	// ErrNegativeUsage is returned when recording a negative amount or duration.
	ErrNegativeUsage = errors.New("energy: usage must not be negative")

	// ErrInvalidThreshold is returned for a negative or non-finite threshold.
	ErrInvalidThreshold = errors.New("energy: invalid threshold")
)
