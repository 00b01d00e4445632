package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/summaryfile"
)

// DefaultMaxWalkDepth bounds how many ancestor directories the marker walk
// inspects beyond the starting directory.
const DefaultMaxWalkDepth = 3

// Service resolves working directories to tracked projects. Locate is a
// pure read: no record is ever created as a side effect of looking one up.
type Service struct {
	registry  RegistryMatcher
	summaries SummaryReader
	maxDepth  int
	logger    *slog.Logger
}

// NewService creates a new locator service. maxDepth <= 0 selects the
// default ancestor-walk bound.
func NewService(reg RegistryMatcher, summaries SummaryReader, maxDepth int, logger *slog.Logger) *Service {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxWalkDepth
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{registry: reg, summaries: summaries, maxDepth: maxDepth, logger: logger}
}

// Locate finds the project owning currentDir: first by walking currentDir
// and its ancestors for the marker directory, then by consulting the
// registry for the most specific covering entry.
func (s *Service) Locate(ctx context.Context, currentDir string) (*Project, error) {
	abs, err := filepath.Abs(currentDir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	dir := abs
	for depth := 0; depth <= s.maxDepth; depth++ {
		if hasMarker(dir) {
			return s.projectAt(ctx, dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	entry, err := s.registry.Match(ctx, abs)
	if err != nil {
		if errors.Is(err, registry.ErrEntryNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("matching registry: %w", err)
	}

	return &Project{
		Path:       entry.Path,
		Name:       entry.Name,
		Kind:       DetectKind(entry.Path),
		SummaryDir: entry.SummaryDir,
	}, nil
}

// projectAt builds the Project for a directory that carries the marker.
// The display name comes from the summary document when it is readable,
// otherwise the directory name stands in.
func (s *Service) projectAt(ctx context.Context, dir string) *Project {
	name := filepath.Base(dir)
	if rec, err := s.summaries.Load(ctx, dir); err == nil && rec.Name != "" {
		name = rec.Name
	} else if err != nil {
		s.logger.Debug("marker found but summary unreadable", "path", dir, "error", err)
	}
	return &Project{
		Path:       dir,
		Name:       name,
		Kind:       DetectKind(dir),
		SummaryDir: filepath.Join(dir, summaryfile.MarkerDir),
	}
}

func hasMarker(dir string) bool {
	path := filepath.Join(dir, summaryfile.MarkerDir, summaryfile.SummaryFile)
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
