package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceUnreachable marks fetch failures; they are surfaced, never retried.
	ErrResourceUnreachable = errors.New("resource unreachable")
	// ErrDecode marks input that cannot be decoded as delimited text.
	ErrDecode = errors.New("decode failure")
	// ErrRowArity marks a data row whose field count differs from the header.
	ErrRowArity = errors.New("row arity mismatch")
	// ErrUnknownColumn is returned when a referenced column does not exist.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn is returned when a rename would give two columns the same name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrNothingToPlot is returned when every row has an absent x or y.
	ErrNothingToPlot = errors.New("no plottable rows")
)

// RowArityError reports the offending line of a malformed resource.
type RowArityError struct {
	Line     int
	Expected int
	Got      int
}

func (e *RowArityError) Error() string {
	return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, e.Expected, e.Got)
}

func (e *RowArityError) Unwrap() error {
	return ErrRowArity
}
