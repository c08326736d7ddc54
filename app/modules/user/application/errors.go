package userservice

import "errors"

// Domain errors for the user service. Handlers map these to 4xx responses.
var (
	// ErrUserAlreadyExists indicates the username is taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUsername indicates the username is empty, too long, or uses unsupported characters.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidEmail indicates a supplied email address is malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWeakPassword indicates the password is shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password too short")
)
