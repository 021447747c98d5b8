package domain

import (
	"errors"
	"fmt"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict with current state")
	ErrInsufficientStock  = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrDuplicate          = fmt.Errorf("%w: duplicate resource", ErrConflict)
	ErrResidentNotFound   = fmt.Errorf("%w: resident", ErrNotFound)
	ErrInvalidQRPayload   = errors.New("not a recognized resident identity code")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is not active")
)

// ValidationError is a client-input failure with a field-level reason that is safe to reveal.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a *ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidInput) hold for validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
