// Package storage holds the persistent records of the shortener together with
// the in-memory and SQLite backends that keep them.
package storage

import "errors"

var (
	// ErrConflict is returned when a unique column (short code, email) is already taken.
	ErrConflict = errors.New("data conflict")
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("not found")
)
