package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrUnsupportedOperation) {
//	    // the device kind has no such operation
//	}
var (
	// ErrInvalidKind is returned when a kind name is not one of the five known kinds.
	ErrInvalidKind = errors.New("device: invalid kind")

	// ErrInvalidName is returned when a device name is empty, too long or contains whitespace.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidLocation is returned when a location is empty, too long or contains whitespace.
	ErrInvalidLocation = errors.New("device: invalid location")

	// ErrInvalidID is returned when a restored device has an empty or malformed ID.
	ErrInvalidID = errors.New("device: invalid id")

	// ErrInvalidBrightness is returned when a brightness level is outside 0-100.
	ErrInvalidBrightness = errors.New("device: brightness out of range")

	// ErrInvalidTemperature is returned when a target temperature is not a finite number.
	ErrInvalidTemperature = errors.New("device: invalid temperature")

	// ErrInvalidPower is returned when a power consumption rate is negative.
	ErrInvalidPower = errors.New("device: negative power consumption")

	// ErrUnsupportedOperation is returned when an operation does not apply to the device kind.
	ErrUnsupportedOperation = errors.New("device: operation not supported by kind")
)
