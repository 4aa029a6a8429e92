package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"bbcharts/internal/chart"
	"bbcharts/internal/domain"
	"bbcharts/internal/store"
	"bbcharts/internal/util"
)

// Exporter fetches chart weeks and writes them as standardized JSON files.
type Exporter struct {
	Provider chart.Provider
	OutRoot  string
	Out      string // explicit output path; bypasses the default layout

	// Archive and Manifest are optional.
	Archive  store.SnapshotStore
	Manifest store.ManifestStore

	Pacer  *util.Pacer
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Result describes one written export.
type Result struct {
	Chart     string
	Requested string
	Resolved  string
	Path      string
	Entries   int
}

// ExportWeek fetches chartSlug for week and writes the export document. The
// provider may resolve a different week; the file is keyed by the resolved
// date and a note is printed to Stderr.
func (e *Exporter) ExportWeek(ctx context.Context, chartSlug, week string) (Result, error) {
	fmt.Fprintf(e.Stdout, "Fetching chart '%s' for week %s ...\n", chartSlug, week)

	snap, err := e.Provider.Fetch(ctx, chartSlug, week)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %s for %s: %w", chartSlug, week, err)
	}
	if snap == nil || snap.Empty() {
		return Result{}, fmt.Errorf("no chart returned for %s on %s: %w", chartSlug, week, chart.ErrNoChart)
	}

	path := e.Out
	if path == "" {
		path, err = NextFreePath(DefaultPath(e.OutRoot, chartSlug, snap.Date))
		if err != nil {
			return Result{}, err
		}
	}
	doc := domain.ChartWeekFromSnapshot(snap)
	if err := WriteJSONFile(path, doc); err != nil {
		return Result{}, err
	}

	if snap.Date != week {
		fmt.Fprintf(e.Stderr, "Note: requested %s, got nearest available %s.\n", week, snap.Date)
	}
	fmt.Fprintf(e.Stdout, "Wrote %d entries to %s\n", len(doc.Data), path)

	res := Result{Chart: chartSlug, Requested: week, Resolved: snap.Date, Path: path, Entries: len(doc.Data)}
	if err := e.persist(ctx, snap, res); err != nil {
		return res, err
	}
	e.logger().Info("export written", "chart", chartSlug, "week", snap.Date, "path", path, "entries", res.Entries)
	return res, nil
}

// ExportSince exports every week in order, pausing between fetches. The first
// failure stops the run; every file already on disk, including one whose
// archive or manifest write failed, is kept and returned alongside the error.
func (e *Exporter) ExportSince(ctx context.Context, chartSlug string, weeks []string) ([]Result, error) {
	pacer := e.Pacer
	if pacer == nil {
		pacer = util.NewPacer(0)
	}

	results := make([]Result, 0, len(weeks))
	for _, week := range weeks {
		if err := pacer.Wait(ctx); err != nil {
			return results, err
		}
		res, err := e.ExportWeek(ctx, chartSlug, week)
		if res.Path != "" {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (e *Exporter) persist(ctx context.Context, snap *domain.Snapshot, res Result) error {
	if e.Archive != nil {
		if err := e.Archive.WriteSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("archiving %s: %w", res.Resolved, err)
		}
	}
	if e.Manifest != nil {
		rec := store.ExportRecord{
			Chart:     res.Chart,
			Requested: res.Requested,
			Resolved:  res.Resolved,
			Path:      res.Path,
			Entries:   res.Entries,
		}
		if err := e.Manifest.RecordExport(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// WriteSummary renders the results of a multi-week run as a table.
func WriteSummary(w io.Writer, results []Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Requested", "Resolved", "Entries", "File"})
	total := 0
	for _, r := range results {
		t.AppendRow(table.Row{r.Requested, r.Resolved, r.Entries, r.Path})
		total += r.Entries
	}
	t.AppendFooter(table.Row{"", strconv.Itoa(len(results)) + " weeks", total, ""})
	t.SetStyle(table.StyleLight)
	t.Render()
}
