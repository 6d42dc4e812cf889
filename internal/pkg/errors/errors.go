package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned when a login attempt does not match
	// the configured application credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingConfiguration is returned when a required credential or
	// setting is absent; callers must fail closed, never grant a default.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
