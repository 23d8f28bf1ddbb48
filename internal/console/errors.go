package console

import "errors"

// Console errors. They are printed to the user; none of them stop the loop.
var (
	// ErrNilHome is returned by New without a home.
	ErrNilHome = errors.New("console: home is required")

	// ErrUnknownCommand is returned for a command word that is not in the table.
	ErrUnknownCommand = errors.New("console: unknown command")

	// ErrUsage is returned when a command gets the wrong number of arguments
	// or an argument that does not parse.
	ErrUsage = errors.New("console: usage")

	// ErrNotLoggedIn is returned by commands that act on the current user.
	ErrNotLoggedIn = errors.New("console: not logged in")

	// ErrRoomNotFound is returned when the current user has no room of that name.
	ErrRoomNotFound = errors.New("console: room not found")

	// ErrRoomExists is returned when adding a room name the user already has.
	ErrRoomExists = errors.New("console: room already exists")

	// ErrDeviceNotFound is returned when a room has no device of that name.
	ErrDeviceNotFound = errors.New("console: device not found")

	// ErrNotScheduled is returned when changing or removing a schedule that does not exist.
	ErrNotScheduled = errors.New("console: device has no schedule")
)
