package resumes

import "errors"

var (
	// ErrNotFound covers both truly absent records and records owned by a
	// different caller, so lookups cannot leak existence.
	ErrNotFound = errors.New("resume not found")

	ErrInvalidInput = errors.New("invalid input")
)
