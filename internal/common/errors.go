// Package common defines shared constants, sentinel errors, and small
// crypto-adjacent helpers used across the auth core. Callers should use
// errors.Is to match the sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorAlreadyExists = errors.New("already exists")

	// Token lifecycle errors (invalid, expired, or already consumed).
	ErrInvalidToken = errors.New("invalid token")
)
