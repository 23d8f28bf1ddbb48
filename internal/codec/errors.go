package codec

import (
	"errors"
	"fmt"
)

// Domain errors for the codec package.
//
// Decode returns *FormatError and *UnknownVariantError values that wrap
// these, so both forms of check work:
//
//	if errors.Is(err, codec.ErrFormat) { ... }
//
//	var fe *codec.FormatError
//	if errors.As(err, &fe) { log.Warn("bad line", "line", fe.Line) }
var (
	// ErrFormat is wrapped by every FormatError.
	ErrFormat = errors.New("codec: malformed data")

	// ErrUnknownVariant is wrapped by every UnknownVariantError.
	ErrUnknownVariant = errors.New("codec: unknown device variant")

	// ErrUnencodable is returned by Encode when a value cannot be written as a
	// single token (empty or containing whitespace).
	ErrUnencodable = errors.New("codec: value cannot be encoded")
)

// FormatError reports a line that does not fit the grammar: an orphan record,
// an unknown record keyword, a wrong field count, a bad value, or a duplicate.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("codec: line %d: %s", e.Line, e.Reason)
}

// Unwrap returns ErrFormat.
func (e *FormatError) Unwrap() error { return ErrFormat }

// UnknownVariantError reports a DEVICE record whose kind tag is not one of
// the known device kinds.
type UnknownVariantError struct {
	Line int
	Tag  string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("codec: line %d: unknown device variant %q", e.Line, e.Tag)
}

// Unwrap returns ErrUnknownVariant.
func (e *UnknownVariantError) Unwrap() error { return ErrUnknownVariant }

func formatErrorf(line int, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
