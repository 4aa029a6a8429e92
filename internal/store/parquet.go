package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"

	"bbcharts/internal/chart"
	"bbcharts/internal/domain"
)

// Compile-time interface check.
var _ SnapshotStore = (*ParquetStore)(nil)

// ParquetStore implements SnapshotStore using one Parquet file per chart week.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// EntryRecord is the Parquet schema for one chart entry. Optional values are
// stored as nullable columns.
type EntryRecord struct {
	Chart        string  `parquet:"chart"`
	Date         string  `parquet:"date"`
	PreviousDate string  `parquet:"previous_date"`
	NextDate     string  `parquet:"next_date"`
	Rank         int32   `parquet:"rank"`
	Title        string  `parquet:"title"`
	Artist       string  `parquet:"artist"`
	LastPos      *int32  `parquet:"last_pos"`
	PeakPos      *int32  `parquet:"peak_pos"`
	Weeks        *int32  `parquet:"weeks"`
	IsNew        bool    `parquet:"is_new"`
	Image        *string `parquet:"image"`
}

// ---------------------------------------------------------------------------
// SnapshotStore implementation
// ---------------------------------------------------------------------------

// WriteSnapshot writes the snapshot to
//
//	<DataDir>/<chart>/<date>.parquet
//
// replacing any earlier file for the same week.
func (s *ParquetStore) WriteSnapshot(_ context.Context, snap *domain.Snapshot) error {
	path := s.snapshotPath(snap.Chart, snap.Date)
	if err := WriteSnapshotParquet(path, snap); err != nil {
		return fmt.Errorf("writing %s/%s: %w", snap.Chart, snap.Date, err)
	}
	return nil
}

// ReadSnapshot reads the stored week for chart on date.
func (s *ParquetStore) ReadSnapshot(_ context.Context, chartSlug, date string) (*domain.Snapshot, error) {
	return ReadSnapshotParquet(s.snapshotPath(chartSlug, date))
}

// ListDates lists the weeks stored for chart.
func (s *ParquetStore) ListDates(_ context.Context, chartSlug string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, chart.SafeSlug(chartSlug)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(e.Name(), ".parquet"))
	}
	sort.Strings(dates)
	return dates, nil
}

// snapshotPath returns the filesystem path for a week's Parquet file.
// Layout: <dataDir>/<chart>/<date>.parquet
func (s *ParquetStore) snapshotPath(chartSlug, date string) string {
	return filepath.Join(s.DataDir, chart.SafeSlug(chartSlug), date+".parquet")
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

// WriteSnapshotParquet writes the snapshot's entries to path, creating parent
// directories as needed.
func WriteSnapshotParquet(path string, snap *domain.Snapshot) error {
	records := make([]EntryRecord, 0, snap.Len())
	for _, e := range snap.Entries {
		records = append(records, EntryRecord{
			Chart:        snap.Chart,
			Date:         snap.Date,
			PreviousDate: snap.PreviousDate,
			NextDate:     snap.NextDate,
			Rank:         int32(e.Rank),
			Title:        e.Title,
			Artist:       e.Artist,
			LastPos:      toInt32(e.LastPos),
			PeakPos:      toInt32(e.PeakPos),
			Weeks:        toInt32(e.Weeks),
			IsNew:        e.IsNew,
			Image:        e.Image,
		})
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return parquet.WriteFile(path, records)
}

// ReadSnapshotParquet reads a file written by WriteSnapshotParquet. Week
// metadata is taken from the first row.
func ReadSnapshotParquet(path string) (*domain.Snapshot, error) {
	records, err := parquet.ReadFile[EntryRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: %w", path, chart.ErrNoChart)
	}

	first := records[0]
	snap := &domain.Snapshot{
		Chart:        first.Chart,
		Date:         first.Date,
		PreviousDate: first.PreviousDate,
		NextDate:     first.NextDate,
		Entries:      make([]domain.Entry, 0, len(records)),
	}
	for _, r := range records {
		snap.Entries = append(snap.Entries, domain.Entry{
			Rank:    int(r.Rank),
			Title:   r.Title,
			Artist:  r.Artist,
			LastPos: fromInt32(r.LastPos),
			PeakPos: fromInt32(r.PeakPos),
			Weeks:   fromInt32(r.Weeks),
			IsNew:   r.IsNew,
			Image:   r.Image,
		})
	}
	sort.SliceStable(snap.Entries, func(i, j int) bool {
		return snap.Entries[i].Rank < snap.Entries[j].Rank
	})
	return snap, nil
}

func toInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func fromInt32(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
