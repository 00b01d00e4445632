package registry

import (
	"context"
	"time"
)

// Repository provides persistence for registry entries.
type Repository interface {
	Upsert(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, path string) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
	Touch(ctx context.Context, path string, touchedAt, expires time.Time) error
}
