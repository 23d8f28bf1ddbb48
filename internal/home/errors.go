package home

import "errors"

// Domain errors for the home package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, home.ErrPolicyViolation) {
//	    // tell the user what the password rules are
//	}
var (
	// ErrPolicyViolation is returned when a password breaks the password policy
	// or a username is already registered. Nothing is changed.
	ErrPolicyViolation = errors.New("home: policy violation")

	// ErrAuthenticationFailed is returned when a password does not match or the
	// user does not exist.
	ErrAuthenticationFailed = errors.New("home: authentication failed")

	// ErrInvalidUsername is returned when a username is empty, too long or contains whitespace.
	ErrInvalidUsername = errors.New("home: invalid username")

	// ErrInvalidRoomName is returned when a room name is empty, too long or contains whitespace.
	ErrInvalidRoomName = errors.New("home: invalid room name")

	// ErrDuplicateDevice is returned when a user brings a device whose ID is
	// already somewhere in the home.
	ErrDuplicateDevice = errors.New("home: device already in home")

	// ErrInvalidCredential is returned when a stored credential is not a valid hash.
	ErrInvalidCredential = errors.New("home: invalid credential")
)
