package notify

import "errors"

// Domain errors for the notify package.
var (
	// ErrEmptyMessage is returned when sending a notification with no text.
	ErrEmptyMessage = errors.New("notify: message is empty")

	// ErrInvalidLevel is returned for a level other than info, warning or alert.
	ErrInvalidLevel = errors.New("notify: invalid level")
)
