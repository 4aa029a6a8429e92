package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ManifestStore = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	chart      TEXT    NOT NULL,
	requested  TEXT    NOT NULL,
	resolved   TEXT    NOT NULL,
	path       TEXT    NOT NULL,
	entries    INTEGER NOT NULL,
	written_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS exports_chart_resolved ON exports (chart, resolved);
`

// SQLiteStore implements ManifestStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, creates the
// manifest table if needed and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordExport inserts an export record.
func (s *SQLiteStore) RecordExport(ctx context.Context, rec ExportRecord) error {
	if rec.WrittenAt.IsZero() {
		rec.WrittenAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (chart, requested, resolved, path, entries, written_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Chart, rec.Requested, rec.Resolved, rec.Path, rec.Entries, rec.WrittenAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording export of %s: %w", rec.Path, err)
	}
	return nil
}

// ListExports returns all exports of chart.
func (s *SQLiteStore) ListExports(ctx context.Context, chart string) ([]ExportRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chart, requested, resolved, path, entries, written_at FROM exports WHERE chart = ? ORDER BY resolved, written_at, id`,
		chart,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		var writtenAt int64
		if err := rows.Scan(&rec.Chart, &rec.Requested, &rec.Resolved, &rec.Path, &rec.Entries, &writtenAt); err != nil {
			return nil, err
		}
		rec.WrittenAt = time.UnixMilli(writtenAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
