package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ganot/chronicle/internal/domain/summary"
)

// Service applies incremental session updates to summary records. Writers
// are serialized per project path; the snapshot of the pre-update state is
// taken before any field is mutated, and a failed persist leaves the
// on-disk record exactly as it was.
type Service struct {
	store    SummaryStore
	activity ActivityLogger
	registry RegistryToucher
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new session update service. activity and registry
// are optional collaborators; pass nil to disable them.
func NewService(store SummaryStore, activity ActivityLogger, registry RegistryToucher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:    store,
		activity: activity,
		registry: registry,
		logger:   logger,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Apply runs one full update cycle against the record for dir:
// snapshot, mutate, bump version, persist. The record is reloaded under the
// per-path lock, so a caller retrying after a persist failure always starts
// from the freshly persisted state.
func (s *Service) Apply(ctx context.Context, dir string, delta summary.Delta) (*summary.Record, error) {
	if err := validateDelta(delta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDelta, err)
	}

	lock := s.pathLock(dir)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.store.Load(ctx, dir)
	if err != nil {
		if errors.Is(err, summary.ErrNotFound) {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("loading summary: %w", err)
	}

	// Write-ahead discipline: the record is never mutated without a
	// preceding successful snapshot of its current version.
	if _, err := s.store.Snapshot(ctx, rec); err != nil {
		return nil, fmt.Errorf("snapshotting version %d: %w", rec.Version, err)
	}

	next := rec.Clone()
	today := dateOnly(s.now())

	if delta.CurrentState != nil {
		next.CurrentState = *delta.CurrentState
	}
	next.Decisions = append(next.Decisions, delta.Decisions...)
	if delta.NextSteps != nil {
		next.NextSteps = append([]string(nil), delta.NextSteps...)
	}
	next.VersionLog = append(next.VersionLog, summary.LogEntry{
		Version: next.Version + 1,
		Date:    today,
		Summary: strings.TrimSpace(delta.Summary),
	})
	next.Version++
	next.LastUpdated = today

	if err := s.store.Persist(ctx, next); err != nil {
		return nil, fmt.Errorf("persisting version %d: %w", next.Version, err)
	}

	s.logger.Info("session saved",
		"path", dir,
		"version", next.Version,
		"summary", strings.TrimSpace(delta.Summary))

	// Advisory bookkeeping: failures are logged, never surfaced.
	if s.activity != nil {
		if err := s.activity.LogUpdate(ctx, next.Path, next.Version, strings.TrimSpace(delta.Summary)); err != nil {
			s.logger.Warn("activity log failed", "path", dir, "error", err)
		}
	}
	if s.registry != nil {
		if err := s.registry.Touch(ctx, next.Path); err != nil {
			s.logger.Warn("registry touch failed", "path", dir, "error", err)
		}
	}

	return next, nil
}

// pathLock returns the mutex serializing writers for a project path.
func (s *Service) pathLock(dir string) *sync.Mutex {
	key := filepath.Clean(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
