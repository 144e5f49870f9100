// Package todo implements the owner-scoped task lifecycle: listing,
// creation, toggling, editing, and deletion, with all validation at
// the service boundary.
package todo

import "errors"

var (
	// ErrNotFound covers both "no such task" and "not your task"; the
	// two cases are indistinguishable on purpose, so a caller can never
	// probe for the existence of another user's tasks.
	ErrNotFound = errors.New("todo not found")

	// ErrValidation signals a field constraint violation on a task write.
	ErrValidation = errors.New("validation failed")
)
