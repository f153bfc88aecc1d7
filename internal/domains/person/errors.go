package person

import "errors"

// Repository-level errors
var (
	// Not Found
	ErrPersonNotFound = errors.New("person not found")
)

// Service-level (Business logic) errors
var (
	// Conflict - raised by the best-effort cache pre-check only.
	// Store-side nickname conflicts never surface; the flusher drops
	// them silently via ON CONFLICT DO NOTHING.
	ErrNicknameTaken = errors.New("nickname already taken")
)

// Validation errors
var (
	ErrMissingSearchTerm = errors.New("search term t is required")
)
