// Package apperrors defines the sentinel errors shared by the service and
// transport layers. Callers match them with errors.Is.
package apperrors

import "errors"

var (
	// input errors
	ErrValidation = errors.New("validation error")
	ErrInvalidID  = errors.New("invalid id")

	// auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("you must be logged in to do that")
	ErrInvalidToken       = errors.New("invalid token")

	// storage errors
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
)
