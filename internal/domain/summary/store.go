package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/chronicle/internal/repository"
)

// SnapshotPolicy controls what happens when a snapshot for a version
// already exists. Ignore makes Snapshot idempotent, which keeps a retried
// Apply safe after a crash between the snapshot and the final persist.
type SnapshotPolicy string

const (
	SnapshotPolicyIgnore SnapshotPolicy = "ignore"
	SnapshotPolicyFail   SnapshotPolicy = "fail"
)

// Store handles the lifecycle of per-project summary records.
type Store struct {
	docs   DocumentStore
	policy SnapshotPolicy
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new summary store.
func NewStore(docs DocumentStore, policy SnapshotPolicy, logger *slog.Logger) *Store {
	if policy == "" {
		policy = SnapshotPolicyIgnore
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{docs: docs, policy: policy, logger: logger, now: time.Now}
}

// CreateRequest defines record creation inputs.
type CreateRequest struct {
	Dir          string
	Name         string
	InitialState string
	SeedStep     string
}

// Load deserializes the persisted record for dir.
func (s *Store) Load(ctx context.Context, dir string) (*Record, error) {
	rec, err := s.docs.Read(ctx, dir)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		return nil, fmt.Errorf("loading summary: %w", err)
	}
	return rec, nil
}

// Create persists a fresh version-1 record for dir. The decision list and
// version log start empty; NextSteps gets a single seed entry. Records are
// only ever created through an explicit call, never implicitly on read.
func (s *Store) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if strings.TrimSpace(req.Dir) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: dir and name are required", ErrInvalidInput)
	}

	exists, err := s.docs.Exists(ctx, req.Dir)
	if err != nil {
		return nil, fmt.Errorf("checking for existing summary: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	seed := req.SeedStep
	if strings.TrimSpace(seed) == "" {
		seed = "Review current state and plan the next session"
	}

	rec := &Record{
		Path:         req.Dir,
		Name:         req.Name,
		Version:      1,
		CurrentState: req.InitialState,
		NextSteps:    []string{seed},
		LastUpdated:  s.now(),
	}

	if err := s.docs.Write(ctx, req.Dir, rec); err != nil {
		return nil, fmt.Errorf("creating summary: %w", err)
	}

	s.logger.Info("summary created", "path", req.Dir, "name", req.Name)
	return rec, nil
}

// Snapshot writes an immutable copy of the record tagged with its current
// version. Behavior for an already-snapshotted version follows the
// configured policy.
func (s *Store) Snapshot(ctx context.Context, rec *Record) (SnapshotID, error) {
	exists, err := s.docs.SnapshotExists(ctx, rec.Path, rec.Version)
	if err != nil {
		return SnapshotID{}, fmt.Errorf("checking snapshot: %w", err)
	}
	if exists {
		if s.policy == SnapshotPolicyFail {
			return SnapshotID{}, fmt.Errorf("%w: version %d", ErrDuplicateSnapshot, rec.Version)
		}
		return SnapshotID{Path: rec.Path, Version: rec.Version}, nil
	}

	id, err := s.docs.WriteSnapshot(ctx, rec.Path, rec)
	if err != nil {
		return SnapshotID{}, fmt.Errorf("writing snapshot: %w", err)
	}
	return id, nil
}

// Persist writes the record's current state to its backing document.
func (s *Store) Persist(ctx context.Context, rec *Record) error {
	if err := s.docs.Write(ctx, rec.Path, rec); err != nil {
		return fmt.Errorf("persisting summary: %w", err)
	}
	return nil
}
