package storage

import "errors"

// Sentinel errors shared by all accessors. The HTTP layer maps each to
// its status code.
var (
	// ErrNotFound is returned when a record does not exist or belongs
	// to another user.
	ErrNotFound = errors.New("record not found")

	// ErrNoChanges is returned by CreateVersion when the current
	// snapshot is identical to the latest saved version.
	ErrNoChanges = errors.New("no changes to save")

	// ErrDuplicate is returned when a create is rejected by the
	// name-similarity gate.
	ErrDuplicate = errors.New("similar record already exists")
)
