package summaryfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ganot/chronicle/internal/domain/summary"
	"github.com/ganot/chronicle/internal/repository"
)

// Store implements summary.DocumentStore on the local file system. The
// summary for a project lives at <dir>/.chronicle/SUMMARY.md; snapshots at
// <dir>/.chronicle/history/SUMMARY.v<N>.md. Current-document writes are
// atomic (tmp file, fsync, rename), so a concurrent reader sees either the
// old record or the new one, never a half-written document.
type Store struct{}

// NewStore creates a new file system document store.
func NewStore() *Store {
	return &Store{}
}

func summaryPath(dir string) string {
	return filepath.Join(dir, MarkerDir, SummaryFile)
}

func snapshotPath(dir string, version int) string {
	return filepath.Join(dir, MarkerDir, HistoryDir, fmt.Sprintf("SUMMARY.v%d.md", version))
}

// Read loads and parses the summary document for dir.
func (s *Store) Read(_ context.Context, dir string) (*summary.Record, error) {
	data, err := os.ReadFile(summaryPath(dir))
	if os.IsNotExist(err) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("summaryfile: read %s: %w", dir, err)
	}
	rec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrMalformed, dir, err)
	}
	rec.Path = dir
	return rec, nil
}

// Write renders and atomically persists the record for dir.
func (s *Store) Write(_ context.Context, dir string, rec *summary.Record) error {
	data, err := Render(rec)
	if err != nil {
		return fmt.Errorf("summaryfile: render: %w", err)
	}
	target := summaryPath(dir)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("summaryfile: mkdir: %w", err)
	}
	return writeAtomic(target, data, 0o644)
}

// Exists reports whether a summary document is persisted for dir.
func (s *Store) Exists(_ context.Context, dir string) (bool, error) {
	info, err := os.Stat(summaryPath(dir))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("summaryfile: stat %s: %w", dir, err)
	}
	return !info.IsDir(), nil
}

// WriteSnapshot persists an immutable copy of the record tagged with its
// current version. The file is written read-only and never overwritten.
func (s *Store) WriteSnapshot(_ context.Context, dir string, rec *summary.Record) (summary.SnapshotID, error) {
	data, err := Render(rec)
	if err != nil {
		return summary.SnapshotID{}, fmt.Errorf("summaryfile: render snapshot: %w", err)
	}
	target := snapshotPath(dir, rec.Version)
	if _, err := os.Stat(target); err == nil {
		return summary.SnapshotID{}, fmt.Errorf("summaryfile: snapshot v%d: %w", rec.Version, repository.ErrAlreadyExists)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return summary.SnapshotID{}, fmt.Errorf("summaryfile: mkdir history: %w", err)
	}
	if err := writeAtomic(target, data, 0o444); err != nil {
		return summary.SnapshotID{}, err
	}
	return summary.SnapshotID{Path: dir, Version: rec.Version}, nil
}

// SnapshotExists reports whether a snapshot for the version is persisted.
func (s *Store) SnapshotExists(_ context.Context, dir string, version int) (bool, error) {
	info, err := os.Stat(snapshotPath(dir, version))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("summaryfile: stat snapshot: %w", err)
	}
	return !info.IsDir(), nil
}

// writeAtomic writes content via tmp file, fsync, rename.
func writeAtomic(target string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".chronicle-tmp-*")
	if err != nil {
		return fmt.Errorf("summaryfile: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("summaryfile: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("summaryfile: sync temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("summaryfile: chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("summaryfile: close temp: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("summaryfile: rename: %w", err)
	}
	return nil
}
