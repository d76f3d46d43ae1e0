package domain

import "github.com/go-faster/errors"

var (
	// ErrNotFound indicates the requested entity was not found, or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPermission indicates the caller is authenticated but may not act on the entity.
	ErrPermission = errors.New("permission denied")
	// ErrInvalidRequest indicates malformed or unrecognized input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConflict indicates the change would break a reference held elsewhere.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized indicates a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
)
