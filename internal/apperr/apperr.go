// Package apperr holds the three failure kinds the queue surfaces to users
// and maps each to a single notification.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a missing order or profile.
var ErrNotFound = errors.New("record not found")

// ValidationError is a missing or malformed input caught before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StoreError is a failed read or write against the order store.
// Reason is the opaque text reported by the backend.
type StoreError struct {
	Op     string
	Reason string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s", e.Op, e.Reason)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError for op; nil stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Reason: err.Error(), Err: err}
}

// AuthRequiredError means the call needs an authenticated identity and has none.
type AuthRequiredError struct {
	Reason string
}

func (e *AuthRequiredError) Error() string {
	if e.Reason == "" {
		return "authentication required"
	}
	return "authentication required: " + e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsAuthRequired reports whether err is an AuthRequiredError.
func IsAuthRequired(err error) bool {
	var ae *AuthRequiredError
	return errors.As(err, &ae)
}
