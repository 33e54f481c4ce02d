package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn matches any MissingColumnError via errors.Is.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedField matches any MalformedFieldError via errors.Is.
	ErrMalformedField = errors.New("malformed field")
)

// MissingColumnError indicates a requested column is absent from the row schema.
type MissingColumnError struct {
	Column string
	Line   int // 0 when raised against a header
}

func (e *MissingColumnError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("missing column %q in row %d", e.Column, e.Line)
	}
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// MalformedFieldError indicates a non-numeric value where a number was required.
type MalformedFieldError struct {
	Column string
	Line   int
	Value  string
	Err    error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed %s in row %d: %q", e.Column, e.Line, e.Value)
}

func (e *MalformedFieldError) Is(target error) bool { return target == ErrMalformedField }

func (e *MalformedFieldError) Unwrap() error { return e.Err }
