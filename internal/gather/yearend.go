package gather

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"bbcharts/internal/chart"
	"bbcharts/internal/util"
)

// DefaultMinYear is the first year of the Hot 100.
const DefaultMinYear = 1958

// YearEndProbe finds the years for which a year-end chart exists. There is
// no index of year-end pages, so every year is requested in turn.
type YearEndProbe struct {
	Provider chart.Provider
	Pacer    *util.Pacer
	MinYear  int
	Now      func() time.Time
	Logger   *slog.Logger
}

// Probe requests each year from the current one down to MinYear and returns
// the years with at least one entry, ascending. A failed request only means
// the year is unavailable; Probe itself fails only when ctx is done.
func (p *YearEndProbe) Probe(ctx context.Context, chartSlug string) ([]int, error) {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	pacer := p.Pacer
	if pacer == nil {
		pacer = util.NewPacer(0)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	minYear := p.MinYear
	if minYear <= 0 {
		minYear = DefaultMinYear
	}

	var years []int
	for y := now().Year(); y >= minYear; y-- {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}
		snap, err := p.Provider.FetchYearEnd(ctx, chartSlug, y)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debug("year-end probe failed", "chart", chartSlug, "year", y, "error", err)
			continue
		}
		if snap.Len() > 0 {
			years = append(years, y)
		}
	}

	slices.Sort(years)
	return years, nil
}
