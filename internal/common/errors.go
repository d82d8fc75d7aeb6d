// Package common defines shared sentinel errors and small helpers used
// across worklog components. Callers should match these values with
// errors.Is.
package common

import "errors"

var (
	// Repository / store level errors.
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrAlreadyClosed    = errors.New("session already closed")
	ErrStoreUnavailable = errors.New("activity store unavailable")

	// Credential errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Session state machine misuse (stop while idle, start while active).
	ErrInvalidState = errors.New("invalid session state")

	// Input validation (empty required fields, password mismatch).
	ErrValidation = errors.New("validation error")
)
