package gather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bbcharts/internal/chart"
	"bbcharts/internal/util"
)

// WeekWalker lists the weekly dates of a chart by starting at the latest
// snapshot and following previous-week pointers.
type WeekWalker struct {
	Provider chart.Provider
	Pacer    *util.Pacer
	Range    DateRange
	Limit    int // max steps, 0 for no limit
	Logger   *slog.Logger
}

// Walk emits every resolved date inside the range, newest first, and returns
// the number of dates emitted. Out-of-range weeks are still fetched and count
// toward Limit. The walk ends when Limit steps were taken, the previous
// pointer is empty, the pointer does not move backwards, or the provider
// returns no chart. Other fetch errors are returned.
func (w *WeekWalker) Walk(ctx context.Context, chartSlug string, emit func(date string) error) (int, error) {
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}
	pacer := w.Pacer
	if pacer == nil {
		pacer = util.NewPacer(0)
	}

	if err := pacer.Wait(ctx); err != nil {
		return 0, err
	}
	snap, err := w.Provider.Fetch(ctx, chartSlug, "")
	if errors.Is(err, chart.ErrNoChart) {
		log.Debug("no latest chart", "chart", chartSlug)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetching latest %s: %w", chartSlug, err)
	}

	emitted, steps := 0, 0
	for snap != nil && snap.Date != "" && !snap.Empty() {
		if w.Range.Contains(snap.Date) {
			if err := emit(snap.Date); err != nil {
				return emitted, err
			}
			emitted++
		}

		steps++
		if w.Limit > 0 && steps >= w.Limit {
			break
		}

		prev := snap.PreviousDate
		if prev == "" {
			break
		}
		if prev >= snap.Date {
			log.Warn("previous week pointer does not move backwards, stopping",
				"chart", chartSlug, "date", snap.Date, "previous", prev)
			break
		}

		if err := pacer.Wait(ctx); err != nil {
			return emitted, err
		}
		snap, err = w.Provider.Fetch(ctx, chartSlug, prev)
		if errors.Is(err, chart.ErrNoChart) {
			log.Debug("no chart at previous week, stopping", "chart", chartSlug, "previous", prev)
			break
		}
		if err != nil {
			return emitted, fmt.Errorf("fetching %s for %s: %w", chartSlug, prev, err)
		}
	}

	log.Debug("walk finished", "chart", chartSlug, "steps", steps, "emitted", emitted)
	return emitted, nil
}
