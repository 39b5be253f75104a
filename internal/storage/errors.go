package storage

import (
	"errors"
	"fmt"
)

// Error taxonomy for store operations. Callers classify failures with
// errors.Is / errors.As and decide how to surface them; no layer retries.
var (
	// ErrNotFound indicates a referenced id (client, sale, payment) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation (duplicate username).
	ErrConflict = errors.New("already exists")
)

// ValidationError indicates malformed input rejected before any mutation:
// missing required field, non-positive amount, discount exceeding subtotal,
// invalid installment count.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for the given field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
