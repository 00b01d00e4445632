package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/repository"
)

// RegistryRepository implements registry.Repository for SQLite
type RegistryRepository struct {
	db *DB
}

// NewRegistryRepository creates a new RegistryRepository
func NewRegistryRepository(db *DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// Upsert inserts or replaces the entry for its path
func (r *RegistryRepository) Upsert(ctx context.Context, entry *registry.Entry) error {
	query := `
		INSERT INTO registry (path, name, summary_dir, last_touched, expires)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			summary_dir = excluded.summary_dir,
			last_touched = excluded.last_touched,
			expires = excluded.expires
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.Path,
		entry.Name,
		entry.SummaryDir,
		entry.LastTouched,
		nullableTime(entry.Expires),
	)

	if err != nil {
		return fmt.Errorf("failed to upsert registry entry: %w", err)
	}

	return nil
}

// Get retrieves the entry registered for exactly this path
func (r *RegistryRepository) Get(ctx context.Context, path string) (*registry.Entry, error) {
	query := `
		SELECT path, name, summary_dir, last_touched, expires
		FROM registry
		WHERE path = ?
	`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, path))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registry entry: %w", err)
	}

	return entry, nil
}

// List returns all registry entries
func (r *RegistryRepository) List(ctx context.Context) ([]registry.Entry, error) {
	query := `
		SELECT path, name, summary_dir, last_touched, expires
		FROM registry
		ORDER BY path ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list registry: %w", err)
	}
	defer rows.Close()

	var entries []registry.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registry entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registry rows: %w", err)
	}

	return entries, nil
}

// Touch updates freshness bookkeeping for a registered path
func (r *RegistryRepository) Touch(ctx context.Context, path string, touchedAt, expires time.Time) error {
	query := `
		UPDATE registry
		SET last_touched = ?, expires = ?
		WHERE path = ?
	`

	result, err := r.db.ExecContext(ctx, query, touchedAt, nullableTime(expires), path)
	if err != nil {
		return fmt.Errorf("failed to touch registry entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*registry.Entry, error) {
	var entry registry.Entry
	var expires sql.NullTime
	if err := row.Scan(
		&entry.Path,
		&entry.Name,
		&entry.SummaryDir,
		&entry.LastTouched,
		&expires,
	); err != nil {
		return nil, err
	}
	if expires.Valid {
		entry.Expires = expires.Time
	}
	return &entry, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
