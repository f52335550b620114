// Package apperr defines the error classes shared by the HTTP and
// live-channel layers. Handlers branch on these with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks a request rejected before any side effect
	// (missing peer id, empty content, self-targeting).
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an insert that lost to an existing row, e.g. a
	// duplicate match for the same pair.
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized marks a request whose identity is missing or not
	// allowed to act on the target (no match between the two users).
	ErrUnauthorized = errors.New("unauthorized")
)
