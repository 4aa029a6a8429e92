// Package store persists exported chart weeks: a Parquet archive of entries
// and a SQLite manifest of the JSON files the exporter has written.
package store

import (
	"context"
	"time"

	"bbcharts/internal/domain"
)

// SnapshotStore persists and retrieves chart snapshots.
type SnapshotStore interface {
	// WriteSnapshot persists all entries of a snapshot.
	WriteSnapshot(ctx context.Context, snap *domain.Snapshot) error

	// ReadSnapshot returns the stored snapshot for chart on date.
	ReadSnapshot(ctx context.Context, chart, date string) (*domain.Snapshot, error)

	// ListDates returns the stored dates for chart in ascending order.
	ListDates(ctx context.Context, chart string) ([]string, error)
}

// ExportRecord describes one JSON file written by the exporter.
type ExportRecord struct {
	Chart     string
	Requested string
	Resolved  string
	Path      string
	Entries   int
	WrittenAt time.Time
}

// ManifestStore records exports.
type ManifestStore interface {
	// RecordExport inserts a new export record.
	RecordExport(ctx context.Context, rec ExportRecord) error

	// ListExports returns the exports for chart ordered by resolved date and
	// write time.
	ListExports(ctx context.Context, chart string) ([]ExportRecord, error)
}
