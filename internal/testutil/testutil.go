// Package testutil provides shared test helpers for setting up project
// directories and registry databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ganot/chronicle/internal/sqlite"
)

// TestDB creates an in-memory registry database with migrations applied.
func TestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.RunMigrations(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ProjectDir creates a temporary directory tree rooted at a fake project,
// with the given relative subdirectories pre-created.
func ProjectDir(t *testing.T, subdirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}
