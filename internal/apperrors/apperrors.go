// Package apperrors defines the error taxonomy shared by services, handlers,
// and the CLI: validation, authorization, business-rule, and not-found errors.
// Storage errors are propagated as-is so callers can tell "nothing found"
// from "the backend is broken".
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller's role does not permit the
	// operation, or when no usable principal was provided.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned for every login failure, regardless
	// of cause, so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an Add would duplicate an existing
	// record. The record is left untouched and no audit entry is written.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInsufficientQuantity is returned when a decrease would take an
	// item's quantity below zero. The quantity is left unchanged.
	ErrInsufficientQuantity = errors.New("insufficient quantity: cannot decrease below 0")
)

// ValidationError marks malformed input, detected before any storage mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the given field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
