// Package auth implements registration, login, and session management.
// Sentinel errors are matched with errors.Is at the HTTP boundary.
package auth

import "errors"

var (
	// ErrInvalidInput signals a username or password that fails the
	// registration constraints (username >= 3 chars, password >= 6).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUsername signals a registration against a taken username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrUserNotFound is returned by the user store for an unknown
	// username. It never reaches a caller directly; login collapses it
	// into ErrInvalidCredentials.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is deliberately opaque: it covers both an
	// unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated signals a missing, unknown, or expired session.
	ErrUnauthenticated = errors.New("not authenticated")
)
