package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ganot/chronicle/internal/repository"
)

// Service handles registry operations.
type Service struct {
	repo   Repository
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new registry service. ttl is the freshness window
// stamped on entries at registration and on every touch; zero means entries
// never expire.
func NewService(repo Repository, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, ttl: ttl, logger: logger, now: time.Now}
}

// Register records a project root and its summary directory.
func (s *Service) Register(ctx context.Context, path, name, summaryDir string) (*Entry, error) {
	if strings.TrimSpace(path) == "" || !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: path must be absolute", ErrInvalidInput)
	}

	now := s.now()
	entry := &Entry{
		Path:        filepath.Clean(path),
		Name:        name,
		SummaryDir:  summaryDir,
		LastTouched: now,
		Expires:     s.expiry(now),
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("registering project: %w", err)
	}

	s.logger.Info("project registered", "path", entry.Path, "name", name)
	return entry, nil
}

// Lookup returns the entry registered for exactly this path.
func (s *Service) Lookup(ctx context.Context, path string) (*Entry, error) {
	entry, err := s.repo.Get(ctx, filepath.Clean(path))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("looking up registry: %w", err)
	}
	return entry, nil
}

// Match finds the registered project covering dir: dir must equal a
// registered path or be a descendant of one. The most specific (longest
// path prefix) non-expired entry wins.
func (s *Service) Match(ctx context.Context, dir string) (*Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing registry: %w", err)
	}

	dir = filepath.Clean(dir)
	now := s.now()

	var best *Entry
	for i := range entries {
		entry := &entries[i]
		if entry.Expired(now) {
			continue
		}
		if !covers(entry.Path, dir) {
			continue
		}
		if best == nil || len(entry.Path) > len(best.Path) {
			best = entry
		}
	}
	if best == nil {
		return nil, ErrEntryNotFound
	}
	return best, nil
}

// List returns all registry entries, including expired ones.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// Touch refreshes freshness bookkeeping for a registered path.
func (s *Service) Touch(ctx context.Context, path string) error {
	now := s.now()
	if err := s.repo.Touch(ctx, filepath.Clean(path), now, s.expiry(now)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("touching registry: %w", err)
	}
	return nil
}

func (s *Service) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

// covers reports whether dir equals root or sits underneath it.
func covers(root, dir string) bool {
	if root == dir {
		return true
	}
	return strings.HasPrefix(dir, root+string(os.PathSeparator))
}
