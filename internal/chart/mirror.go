package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-resty/resty/v2"

	"bbcharts/internal/domain"
)

// MirrorChart is the only chart the static mirror publishes.
const MirrorChart = "hot-100"

// Compile-time interface check.
var _ Provider = (*MirrorClient)(nil)

// MirrorClient reads weekly hot-100 charts from the static JSON mirror. Week
// pointers and nearest-date resolution come from the mirror's valid-dates
// list, which is loaded once per client.
type MirrorClient struct {
	client   *resty.Client
	datesURL string
	dates    []string
	log      *slog.Logger
}

// NewMirrorClient creates a client for the mirror at opts.BaseURL.
func NewMirrorClient(opts Options) *MirrorClient {
	datesURL := opts.ValidDatesURL
	if datesURL == "" {
		datesURL = "/valid_dates.json"
	}
	return &MirrorClient{
		client:   NewHTTPClient(opts),
		datesURL: datesURL,
		log:      loggerOr(opts.Logger),
	}
}

// Fetch implements Provider.
func (c *MirrorClient) Fetch(ctx context.Context, chart, date string) (*domain.Snapshot, error) {
	if chart != MirrorChart {
		return nil, fmt.Errorf("chart %q: %w", chart, ErrUnsupported)
	}
	dates, err := c.validDates(ctx)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, ErrNoChart
	}

	idx := resolveIndex(dates, date)
	resolved := dates[idx]

	path := "/date/" + resolved + ".json"
	res, err := c.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", path, res.Status())
	}

	var week domain.ChartWeek
	if err := json.Unmarshal(res.Body(), &week); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if week.Date == "" && len(week.Data) == 0 {
		return nil, ErrNoChart
	}
	if week.Date == "" {
		week.Date = resolved
	}

	snap := &domain.Snapshot{
		Chart:   chart,
		Date:    week.Date,
		Entries: week.Entries(),
	}
	if idx > 0 {
		snap.PreviousDate = dates[idx-1]
	}
	if idx < len(dates)-1 {
		snap.NextDate = dates[idx+1]
	}
	if err := snap.Validate(); err != nil {
		c.log.WarnContext(ctx, "mirror week failed validation", "date", snap.Date, "error", err)
	}
	return snap, nil
}

// FetchYearEnd implements Provider. The mirror has no year-end charts.
func (c *MirrorClient) FetchYearEnd(_ context.Context, chart string, year int) (*domain.Snapshot, error) {
	return nil, fmt.Errorf("year-end %s %d: %w", chart, year, ErrUnsupported)
}

func (c *MirrorClient) validDates(ctx context.Context) ([]string, error) {
	if c.dates != nil {
		return c.dates, nil
	}
	dates, err := LoadValidDates(ctx, c.client, c.datesURL)
	if err != nil {
		return nil, err
	}
	c.log.DebugContext(ctx, "loaded mirror date index", "dates", len(dates))
	c.dates = dates
	return dates, nil
}

// resolveIndex picks the latest date on or before want, falling back to the
// earliest date when want precedes the whole list. An empty want selects the
// latest date.
func resolveIndex(dates []string, want string) int {
	if want == "" {
		return len(dates) - 1
	}
	i, found := slices.BinarySearch(dates, want)
	if found {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}
