// Package common defines shared constants and sentinel errors used across
// ShelfShare components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrStorageUnavailable means the backing store could not be reached at
	// all. It is never conflated with ErrNotFound.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Session / auth errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionExpired  = errors.New("session expired")

	// Authorization errors. ErrAccessDenied is an authenticated requester
	// lacking rights on a resource; ErrForbidden is an acting party not
	// entitled to mutate a specific friendship edge.
	ErrAccessDenied = errors.New("access denied")
	ErrForbidden    = errors.New("forbidden")

	// Friendship graph errors.
	ErrInvalidTarget    = errors.New("invalid target")
	ErrAlreadyFriends   = errors.New("already friends")
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrRequestPending   = errors.New("request pending")
	ErrInvalidState     = errors.New("invalid state")

	// Validation / generic flow control.
	ErrValidation = errors.New("validation error")
	ErrInternal   = errors.New("internal error")
)
