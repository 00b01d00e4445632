package summary

import "errors"

var (
	// ErrNotFound indicates no record exists for the path.
	ErrNotFound = errors.New("summary not found")
	// ErrAlreadyExists indicates a record is already persisted for the path.
	ErrAlreadyExists = errors.New("summary already exists")
	// ErrMalformedRecord indicates the persisted document is missing required fields.
	ErrMalformedRecord = errors.New("malformed summary record")
	// ErrInvalidDelta indicates a no-op update was rejected before any I/O.
	ErrInvalidDelta = errors.New("invalid delta")
	// ErrInvalidInput indicates invalid record creation input.
	ErrInvalidInput = errors.New("invalid summary input")
	// ErrDuplicateSnapshot indicates a snapshot for the version already exists.
	ErrDuplicateSnapshot = errors.New("duplicate snapshot")
)
