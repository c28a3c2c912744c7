package pipeline

import (
	"errors"
	"fmt"
)

// ErrMissingInput is the sentinel matched by every MissingInputError.
var ErrMissingInput = errors.New("pipeline: missing input")

// MissingInputError reports a required table, or a column of it, that the
// caller did not provide. Column is empty when the whole table is absent.
type MissingInputError struct {
	Table  string
	Column string
}

func (e *MissingInputError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("pipeline: missing input table %q", e.Table)
	}
	return fmt.Sprintf("pipeline: table %q is missing column %q", e.Table, e.Column)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }
