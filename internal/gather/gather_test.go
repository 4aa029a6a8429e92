package gather

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bbcharts/internal/chart"
	"bbcharts/internal/domain"
	"bbcharts/internal/util"
)

// fakeProvider serves a fixed chain of weekly snapshots and a set of
// year-end years.
type fakeProvider struct {
	weeks    []string // newest first
	years    map[int]int
	failOn   string
	noChart  map[string]bool // requested dates answered with chart.ErrNoChart
	fetched  []string
	probed   []int
	loopBack bool
}

func (f *fakeProvider) Fetch(_ context.Context, _ string, date string) (*domain.Snapshot, error) {
	f.fetched = append(f.fetched, date)
	if date != "" && date == f.failOn {
		return nil, errors.New("boom")
	}
	if f.noChart[date] {
		return nil, fmt.Errorf("%s: %w", date, chart.ErrNoChart)
	}
	idx := 0
	if date != "" {
		idx = -1
		for i, w := range f.weeks {
			if w == date {
				idx = i
			}
		}
		if idx < 0 {
			return nil, chart.ErrNotFound
		}
	}
	snap := &domain.Snapshot{
		Chart:   "hot-100",
		Date:    f.weeks[idx],
		Entries: []domain.Entry{{Rank: 1, Title: "X", Artist: "Y"}},
	}
	if idx+1 < len(f.weeks) {
		snap.PreviousDate = f.weeks[idx+1]
	}
	if f.loopBack && idx == len(f.weeks)-1 {
		snap.PreviousDate = f.weeks[0]
	}
	return snap, nil
}

func (f *fakeProvider) FetchYearEnd(_ context.Context, _ string, year int) (*domain.Snapshot, error) {
	f.probed = append(f.probed, year)
	n, ok := f.years[year]
	if !ok {
		return nil, fmt.Errorf("year %d: %w", year, chart.ErrNotFound)
	}
	snap := &domain.Snapshot{Chart: "hot-100", Date: fmt.Sprint(year)}
	for i := 1; i <= n; i++ {
		snap.Entries = append(snap.Entries, domain.Entry{Rank: i})
	}
	return snap, nil
}

func weeklyChain() []string {
	return []string{"2011-01-08", "2011-01-01", "2010-12-25", "2010-06-05", "2009-12-26"}
}

func collect(t *testing.T, w *WeekWalker) ([]string, int, error) {
	t.Helper()
	var got []string
	n, err := w.Walk(context.Background(), "hot-100", func(d string) error {
		got = append(got, d)
		return nil
	})
	return got, n, err
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange("2010-01-01", "2010-12-31")
	require.NoError(t, err)
	assert.True(t, r.Bounded())
	assert.True(t, r.Contains("2010-01-01"))
	assert.True(t, r.Contains("2010-12-31"))
	assert.False(t, r.Contains("2009-12-31"))
	assert.False(t, r.Contains("2011-01-01"))
	assert.False(t, r.Contains(""))

	open, err := NewDateRange("", "")
	require.NoError(t, err)
	assert.False(t, open.Bounded())
	assert.True(t, open.Contains("1958-08-04"))

	_, err = NewDateRange("2010-13-01", "")
	assert.True(t, util.IsUsage(err))
	_, err = NewDateRange("", "yesterday")
	assert.True(t, util.IsUsage(err))
}

func TestWalkUnbounded(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain()}
	got, n, err := collect(t, &WeekWalker{Provider: p})
	require.NoError(t, err)
	assert.Equal(t, weeklyChain(), got)
	assert.Equal(t, 5, n)
	assert.Equal(t, "", p.fetched[0], "walk starts at the latest week")
}

func TestWalkBoundsSkipButCount(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain()}
	r, err := NewDateRange("2010-01-01", "2010-12-31")
	require.NoError(t, err)

	got, n, err := collect(t, &WeekWalker{Provider: p, Range: r})
	require.NoError(t, err)
	assert.Equal(t, []string{"2010-12-25", "2010-06-05"}, got)
	assert.Equal(t, 2, n)
	assert.Len(t, p.fetched, 5, "bounds never stop the walk early")

	p = &fakeProvider{weeks: weeklyChain()}
	got, _, err = collect(t, &WeekWalker{Provider: p, Range: r, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"2010-12-25"}, got, "skipped weeks count toward the limit")
	assert.Len(t, p.fetched, 3)
}

func TestWalkLimit(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain()}
	got, _, err := collect(t, &WeekWalker{Provider: p, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"2011-01-08", "2011-01-01"}, got)
	assert.Len(t, p.fetched, 2)
}

func TestWalkStopsOnForwardPointer(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain(), loopBack: true}
	got, _, err := collect(t, &WeekWalker{Provider: p})
	require.NoError(t, err)
	assert.Equal(t, weeklyChain(), got)
}

func TestWalkFetchError(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain(), failOn: "2010-12-25"}
	got, n, err := collect(t, &WeekWalker{Provider: p})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"2011-01-08", "2011-01-01"}, got)
	assert.Equal(t, 2, n)
}

func TestWalkEndsQuietlyWithoutChart(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain(), noChart: map[string]bool{"2010-12-25": true}}
	got, n, err := collect(t, &WeekWalker{Provider: p})
	require.NoError(t, err)
	assert.Equal(t, []string{"2011-01-08", "2011-01-01"}, got)
	assert.Equal(t, 2, n)
	assert.Len(t, p.fetched, 3)

	p = &fakeProvider{weeks: weeklyChain(), noChart: map[string]bool{"": true}}
	got, n, err = collect(t, &WeekWalker{Provider: p})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, n)
}

func TestWalkEmitError(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain()}
	stop := errors.New("closed")
	_, err := (&WeekWalker{Provider: p}).Walk(context.Background(), "hot-100", func(string) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestWalkCancelled(t *testing.T) {
	p := &fakeProvider{weeks: weeklyChain()}
	ctx, cancel := context.WithCancel(context.Background())
	w := &WeekWalker{Provider: p, Pacer: util.NewPacer(time.Hour)}

	_, err := w.Walk(ctx, "hot-100", func(string) error {
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, p.fetched, 1)
}

func TestYearEndProbe(t *testing.T) {
	p := &fakeProvider{years: map[int]int{2024: 100, 2022: 100, 2021: 0, 2019: 50}}
	probe := &YearEndProbe{
		Provider: p,
		MinYear:  2018,
		Now:      func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
	}

	years, err := probe.Probe(context.Background(), "hot-100")
	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2022, 2024}, years)
	assert.Equal(t, []int{2025, 2024, 2023, 2022, 2021, 2020, 2019, 2018}, p.probed)
}

func TestYearEndProbeNothingFound(t *testing.T) {
	p := &fakeProvider{}
	probe := &YearEndProbe{
		Provider: p,
		MinYear:  2020,
		Now:      func() time.Time { return time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC) },
	}

	years, err := probe.Probe(context.Background(), "hot-100")
	require.NoError(t, err)
	assert.Empty(t, years)
	assert.Len(t, p.probed, 2)
}

func TestYearEndProbeDefaultFloor(t *testing.T) {
	p := &fakeProvider{}
	probe := &YearEndProbe{
		Provider: p,
		Now:      func() time.Time { return time.Date(1960, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
	_, err := probe.Probe(context.Background(), "hot-100")
	require.NoError(t, err)
	assert.Equal(t, []int{1960, 1959, 1958}, p.probed)
}
