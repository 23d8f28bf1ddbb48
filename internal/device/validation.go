package device

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxTokenLength bounds names and locations. They are written to the data
// file as single whitespace-delimited tokens.
const maxTokenLength = 64

// ValidateName checks that a device name can be stored as one token.
func ValidateName(name string) error {
	if err := validateToken(name); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidName, err.Error())
	}
	return nil
}

// ValidateLocation checks that a location can be stored as one token.
func ValidateLocation(location string) error {
	if err := validateToken(location); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLocation, err.Error())
	}
	return nil
}

func validateToken(s string) error {
	if s == "" {
		return errors.New("must not be empty")
	}
	if utf8.RuneCountInString(s) > maxTokenLength {
		return fmt.Errorf("must be at most %d characters", maxTokenLength)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return errors.New("must not contain whitespace")
	}
	return nil
}

// ValidateID checks a device ID supplied from outside (the data file).
// IDs only need to be non-empty single tokens; IDs minted by New are UUIDs.
func ValidateID(id string) error {
	if err := validateToken(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, err.Error())
	}
	return nil
}

// GenerateID creates a new unique device ID.
func GenerateID() string {
	return uuid.New().String()
}
