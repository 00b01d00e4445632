package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const defaultListLimit = 20

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogCreate records the creation of a summary document.
func (s *Service) LogCreate(ctx context.Context, projectPath, name string) error {
	return s.log(ctx, &Entry{
		ProjectPath: projectPath,
		Type:        TypeCreated,
		Version:     1,
		Summary:     fmt.Sprintf("created summary for %s", name),
	})
}

// LogUpdate records an accepted session update. Implements the
// session.ActivityLogger collaborator.
func (s *Service) LogUpdate(ctx context.Context, projectPath string, version int, sessionSummary string) error {
	return s.log(ctx, &Entry{
		ProjectPath: projectPath,
		Type:        TypeUpdated,
		Version:     version,
		Summary:     sessionSummary,
	})
}

// Recent returns the latest activity entries, newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

func (s *Service) log(ctx context.Context, entry *Entry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = s.now()
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}
