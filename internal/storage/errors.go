package storage

import "errors"

var (
	// ErrMissingName is returned when a record without a usable name reaches Insert.
	// Callers are expected to discard nameless records before storage.
	ErrMissingName = errors.New("record has no name")

	// ErrUnknownQuery is returned when a viewer operation references a query
	// the store has never seen.
	ErrUnknownQuery = errors.New("unknown query")
)
