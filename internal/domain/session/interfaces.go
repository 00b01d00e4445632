package session

import (
	"context"

	"github.com/ganot/chronicle/internal/domain/summary"
)

// SummaryStore provides the record lifecycle operations Apply is built on.
type SummaryStore interface {
	Load(ctx context.Context, dir string) (*summary.Record, error)
	Snapshot(ctx context.Context, rec *summary.Record) (summary.SnapshotID, error)
	Persist(ctx context.Context, rec *summary.Record) error
}

// ActivityLogger records accepted updates. Failures are advisory and never
// fail the update itself.
type ActivityLogger interface {
	LogUpdate(ctx context.Context, projectPath string, version int, sessionSummary string) error
}

// RegistryToucher refreshes registry bookkeeping for a project path.
type RegistryToucher interface {
	Touch(ctx context.Context, path string) error
}
