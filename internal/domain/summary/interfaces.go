package summary

import "context"

// DocumentStore persists summary documents and their version snapshots for
// a project directory. Implementations report missing or broken documents
// with the repository package sentinels.
type DocumentStore interface {
	Read(ctx context.Context, dir string) (*Record, error)
	Write(ctx context.Context, dir string, rec *Record) error
	Exists(ctx context.Context, dir string) (bool, error)
	WriteSnapshot(ctx context.Context, dir string, rec *Record) (SnapshotID, error)
	SnapshotExists(ctx context.Context, dir string, version int) (bool, error)
}
