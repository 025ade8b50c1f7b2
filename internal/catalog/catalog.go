package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"golang.org/x/text/cases"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases are rebuilt from the cache, not migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("catalog schema version mismatch")

// Entry is one indexed unit.
type Entry struct {
	UnitID   string    `json:"unit_id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Version  string    `json:"version"`
	CachedAt time.Time `json:"cached_at"`
}

// Index manages unit metadata persistence backed by SQLite.
type Index struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	idx := &Index{db: db, path: path}
	if err := idx.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

// Close closes the underlying database connection.
func (i *Index) Close() error {
	if i == nil || i.db == nil {
		return nil
	}
	return i.db.Close()
}

// Path returns the database file location.
func (i *Index) Path() string {
	if i == nil {
		return ""
	}
	return i.path
}

func (i *Index) initSchema(ctx context.Context) error {
	var tableExists int
	err := i.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := i.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := i.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, i.path)
	}
	return nil
}

// Upsert inserts or refreshes an entry.
func (i *Index) Upsert(ctx context.Context, entry Entry) error {
	entry.UnitID = strings.TrimSpace(entry.UnitID)
	if entry.UnitID == "" {
		return errors.New("unit id cannot be empty")
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}
	_, err := i.db.ExecContext(ctx,
		`INSERT INTO units (unit_id, name, category, version, cached_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(unit_id) DO UPDATE SET
           name = excluded.name,
           category = excluded.category,
           version = excluded.version,
           cached_at = excluded.cached_at`,
		entry.UnitID, entry.Name, entry.Category, entry.Version,
		entry.CachedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert unit %s: %w", entry.UnitID, err)
	}
	return nil
}

// Remove deletes an entry by unit id. Removing an absent id is not an error.
func (i *Index) Remove(ctx context.Context, unitID string) error {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return errors.New("unit id cannot be empty")
	}
	if _, err := i.db.ExecContext(ctx, "DELETE FROM units WHERE unit_id = ?", unitID); err != nil {
		return fmt.Errorf("remove unit %s: %w", unitID, err)
	}
	return nil
}

// Clear deletes every entry.
func (i *Index) Clear(ctx context.Context) error {
	if _, err := i.db.ExecContext(ctx, "DELETE FROM units"); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return nil
}

// List returns all entries ordered by name, then unit id.
func (i *Index) List(ctx context.Context) ([]Entry, error) {
	rows, err := i.db.QueryContext(ctx,
		"SELECT unit_id, name, category, version, cached_at FROM units ORDER BY name, unit_id")
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search returns entries whose name, category, or unit id contains the query
// under Unicode case folding.
func (i *Index) Search(ctx context.Context, query string) ([]Entry, error) {
	entries, err := i.List(ctx)
	if err != nil {
		return nil, err
	}
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))
	if needle == "" {
		return entries, nil
	}
	matched := entries[:0]
	for _, entry := range entries {
		haystack := folder.String(entry.Name + " " + entry.Category + " " + entry.UnitID)
		if strings.Contains(haystack, needle) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// Count returns the number of indexed units.
func (i *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM units").Scan(&count); err != nil {
		return 0, fmt.Errorf("count units: %w", err)
	}
	return count, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var cachedAt string
		if err := rows.Scan(&entry.UnitID, &entry.Name, &entry.Category, &entry.Version, &cachedAt); err != nil {
			return nil, fmt.Errorf("scan unit row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, cachedAt); err == nil {
			entry.CachedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unit rows: %w", err)
	}
	return entries, nil
}
