package store

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no migration record exists for a key.
	ErrNotFound = errors.New("migration record not found")
)
