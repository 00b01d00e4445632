package registry

import "errors"

var (
	// ErrEntryNotFound indicates no registry entry covers the path.
	ErrEntryNotFound = errors.New("registry entry not found")
	// ErrInvalidInput indicates invalid registration input.
	ErrInvalidInput = errors.New("invalid registry input")
)
