package application

import "errors"

// Expected dashboard outcomes, mapped to HTTP statuses at the interface
// layer.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUpgradeRequired = errors.New("plan upgrade required")
	ErrQuotaExceeded   = errors.New("quota exceeded")
)
