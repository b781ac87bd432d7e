package backup

import "errors"

// Common backup errors.
var (
	// ErrSnapshotNotFound is returned when no snapshot exists for an id.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
