package domain

import (
	"errors"
	"fmt"
)

// Business-rule outcomes. These are expected results, returned as typed
// errors and fully handled by the interface layer; only infrastructure
// failures propagate beyond it.
var (
	// ErrEndpointUnavailable covers both a missing and a deactivated
	// endpoint. Anonymous visitors must not be able to tell the two apart.
	ErrEndpointUnavailable = errors.New("endpoint unavailable")

	// ErrUpgradeRequired means the owner's plan lacks a gated feature.
	ErrUpgradeRequired = errors.New("plan upgrade required")

	// ErrQuotaExceeded means the tenant hit a monthly creation cap.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrCaseClosed rejects any mutation of a closed recovery case.
	ErrCaseClosed = errors.New("recovery case is closed")

	// ErrMessageLimitReached rejects appends once a case holds the maximum
	// number of messages, regardless of the author's role.
	ErrMessageLimitReached = errors.New("message limit reached")

	// ErrCaseNotFound is only surfaced to the authenticated business side.
	// Customer-facing paths translate it to ErrUnauthorized so an invalid
	// link does not reveal whether the case exists.
	ErrCaseNotFound = errors.New("recovery case not found")

	// ErrUnauthorized means the acting identity does not match the tenant
	// or case.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports malformed or missing input for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
