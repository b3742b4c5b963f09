package okr

import (
	"errors"
	"fmt"
)

// ErrInsufficientData indicates a derivation was requested without the
// inputs it needs (e.g. burndown on a cycle with no end date). Callers
// omit the widget rather than failing.
var ErrInsufficientData = errors.New("insufficient data")

// ValidationError flags a malformed numeric field on a key result. It is
// returned instead of letting NaN or infinities flow into stored progress.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("key result field %s is not a finite number (%v)", e.Field, e.Value)
}
