package db

import "errors"

var (
	// ErrNotFound is returned when a targeted row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional write matched fewer rows than expected,
	// or a uniqueness constraint rejected it
	ErrConflict = errors.New("conflicting write")
)
