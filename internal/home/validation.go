package home

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTokenLength bounds usernames and room names, which are stored as single
// whitespace-delimited tokens in the data file.
const maxTokenLength = 64

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

func wrapToken(sentinel, err error) error {
	return fmt.Errorf("%w: %s", sentinel, err.Error())
}
