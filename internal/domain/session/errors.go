package session

import "errors"

var (
	// ErrInvalidDelta indicates the update carries nothing worth logging.
	ErrInvalidDelta = errors.New("invalid delta")
	// ErrSummaryNotFound indicates no record exists for the target path.
	ErrSummaryNotFound = errors.New("summary not found")
)
