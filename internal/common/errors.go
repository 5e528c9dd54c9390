// Package common defines shared sentinel errors used across the service,
// repository, and transport layers. Callers match these values with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrorUsernameExists = errors.New("username already exists")
	ErrorEmailExists    = errors.New("email already exists")

	// Service-level errors (generic flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorPermissionDenied   = errors.New("not enough permissions")

	// Auth errors (invalid, expired, or malformed token).
	ErrorInvalidToken = errors.New("invalid token")

	// Validation errors (bad request payloads or query parameters).
	ErrorValidation = errors.New("validation error")
)
