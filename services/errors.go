package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when ingestion is called without a usable path.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoObservations is returned when no row matched the region filter.
	ErrNoObservations = errors.New("no observations for region")
)

// DateFormatError describes a date field that is not YYYY-MM-DD. Ingestion
// recovers from it by dropping the row.
type DateFormatError struct {
	Line  int
	Value string
	Err   error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("line %d: date %q does not match format YYYY-MM-DD: %v", e.Line, e.Value, e.Err)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// NumericFormatError describes a cases or deaths field that is not a base-10
// integer. It aborts ingestion.
type NumericFormatError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("line %d: %s value %q is not an integer: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *NumericFormatError) Unwrap() error { return e.Err }

// MissingColumnError is returned when a row needs a column that the header
// does not name, or that the row is too short to contain.
type MissingColumnError struct {
	Line   int
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("line %d: missing %q column", e.Line, e.Column)
}
