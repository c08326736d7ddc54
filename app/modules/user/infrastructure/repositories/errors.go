package userdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateUsername indicates the unique username constraint rejected an insert.
	ErrDuplicateUsername = errors.New("username already exists")
)
