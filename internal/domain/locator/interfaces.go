package locator

import (
	"context"

	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/summary"
)

// RegistryMatcher finds the registered project covering a directory.
type RegistryMatcher interface {
	Match(ctx context.Context, dir string) (*registry.Entry, error)
}

// SummaryReader loads the summary record for a project directory.
type SummaryReader interface {
	Load(ctx context.Context, dir string) (*summary.Record, error)
}
