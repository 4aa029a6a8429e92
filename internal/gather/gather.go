// Package gather discovers which weeks and years a chart has data for, by
// following previous-week pointers or probing year-end pages.
package gather

import (
	"time"

	"bbcharts/internal/util"
)

// DateRange is an optional inclusive date window. A zero Start or End leaves
// that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses YYYY-MM-DD bounds. Empty strings leave the bound open;
// malformed dates are usage errors.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := util.ParseOptionalDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := util.ParseOptionalDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Bounded reports whether either side of the range is set.
func (r DateRange) Bounded() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

// Contains reports whether date falls inside the range. Unparseable dates are
// never contained in a bounded range.
func (r DateRange) Contains(date string) bool {
	if !r.Bounded() {
		return true
	}
	d, err := util.ParseDate(date)
	if err != nil {
		return false
	}
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}
