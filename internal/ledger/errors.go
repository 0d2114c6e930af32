// Package ledger defines the error taxonomy shared by the expense engine.
// It has no infrastructure dependencies.
package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced board, user, expense or category
	// does not exist (or a category belongs to a different board).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a concurrent split recompute collided on the
	// same expense. The whole operation should be retried, not partial steps.
	ErrConflict = errors.New("conflicting update")
)

// ValidationError reports malformed or inconsistent split input: empty
// participant set, duplicate user, percentage sum not 100, amount sum not
// equal to the expense total, or missing split input for a strategy that
// requires it. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
