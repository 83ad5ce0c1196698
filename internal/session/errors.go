package session

import (
	"errors"
	"fmt"
)

var (
	ErrValidation              = errors.New("session: validation failed")
	ErrUnknownConnectionStatus = errors.New("session: unknown connection status")
)

// ValidationError names the offending field. Message is safe to show to API
// callers as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
