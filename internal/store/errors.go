package store

import "errors"

var (
	// ErrNotFound means the referenced entity id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a user with the given email already exists.
	ErrConflict = errors.New("email already registered")
	// ErrInvalidCredentials means no user matched the email/secret pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
