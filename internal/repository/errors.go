// Package repository holds the error contract shared by all persistence
// implementations. The per-aggregate repository interfaces live next to the
// domain types that consume them (see the interfaces.go file of each
// internal/domain package); implementations translate their storage errors
// to the sentinels defined here.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating an entity that is already persisted
	ErrAlreadyExists = errors.New("already exists")

	// ErrMalformed is returned when a persisted document is missing required fields
	ErrMalformed = errors.New("malformed record")
)
