package scheduler

import "errors"

// Domain errors for the scheduler package.
var (
	// ErrInvalidTime is returned for an hour outside 0-23 or a minute
	// outside 0-59, or a string that is not HH:MM.
	ErrInvalidTime = errors.New("scheduler: invalid time of day")

	// ErrNilDevice is returned when scheduling a nil device.
	ErrNilDevice = errors.New("scheduler: device is nil")
)
