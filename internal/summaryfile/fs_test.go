package summaryfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/chronicle/internal/domain/summary"
	"github.com/ganot/chronicle/internal/repository"
)

func testRecord(dir string, version int) *summary.Record {
	return &summary.Record{
		Path:         dir,
		Name:         "Widget",
		Version:      version,
		CurrentState: "setup",
		NextSteps:    []string{"write tests"},
		LastUpdated:  date("2026-08-30"),
	}
}

func TestStore_WriteRead(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, store.Write(ctx, dir, testRecord(dir, 1)))

	rec, err := store.Read(ctx, dir)
	require.NoError(t, err)
	require.Equal(t, dir, rec.Path)
	require.Equal(t, "Widget", rec.Name)
	require.Equal(t, 1, rec.Version)
}

func TestStore_ReadNotFound(t *testing.T) {
	store := NewStore()
	_, err := store.Read(context.Background(), t.TempDir())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_ReadMalformed(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	dir := t.TempDir()

	markerDir := filepath.Join(dir, MarkerDir)
	require.NoError(t, os.MkdirAll(markerDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(markerDir, SummaryFile), []byte("not a summary"), 0o644))

	_, err := store.Read(ctx, dir)
	require.ErrorIs(t, err, repository.ErrMalformed)
}

func TestStore_Exists(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	dir := t.TempDir()

	exists, err := store.Exists(ctx, dir)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, store.Write(ctx, dir, testRecord(dir, 1)))

	exists, err = store.Exists(ctx, dir)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestStore_WriteIsAtomicReplace(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, store.Write(ctx, dir, testRecord(dir, 1)))
	rec := testRecord(dir, 2)
	rec.CurrentState = "revised"
	require.NoError(t, store.Write(ctx, dir, rec))

	loaded, err := store.Read(ctx, dir)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Version)
	require.Equal(t, "revised", loaded.CurrentState)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, MarkerDir))
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), "tmp")
	}
}

func TestStore_SnapshotLifecycle(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	dir := t.TempDir()
	rec := testRecord(dir, 1)

	exists, err := store.SnapshotExists(ctx, dir, 1)
	require.NoError(t, err)
	require.False(t, exists)

	id, err := store.WriteSnapshot(ctx, dir, rec)
	require.NoError(t, err)
	require.Equal(t, summary.SnapshotID{Path: dir, Version: 1}, id)

	exists, err = store.SnapshotExists(ctx, dir, 1)
	require.NoError(t, err)
	require.True(t, exists)

	// Snapshots are never overwritten.
	_, err = store.WriteSnapshot(ctx, dir, rec)
	require.Error(t, err)
	require.True(t, errors.Is(err, repository.ErrAlreadyExists))
}

func TestStore_SnapshotIsReadOnly(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	dir := t.TempDir()

	_, err := store.WriteSnapshot(ctx, dir, testRecord(dir, 1))
	require.NoError(t, err)

	path := filepath.Join(dir, MarkerDir, HistoryDir, "SUMMARY.v1.md")
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o444), info.Mode().Perm())
}
