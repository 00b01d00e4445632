package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the registry and activity tables.
func (db *DB) RunMigrations() error {
	migration := `
-- Registry of known projects: the locator's fallback when the marker walk
-- fails. One row per distinct project path.
CREATE TABLE IF NOT EXISTS registry (
    path TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    summary_dir TEXT NOT NULL,
    last_touched TIMESTAMP NOT NULL,
    expires TIMESTAMP
);

-- Append-only log of accepted summary updates.
CREATE TABLE IF NOT EXISTS activity_log (
    id TEXT PRIMARY KEY,
    project_path TEXT NOT NULL,
    activity_type TEXT NOT NULL,
    version INTEGER NOT NULL,
    summary TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_project ON activity_log(project_path);
CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_log(created_at);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
