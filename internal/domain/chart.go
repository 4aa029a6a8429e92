// Package domain defines the chart types shared by the fetchers, walkers and
// exporters.
package domain

import "fmt"

// Entry is one ranked row of a chart week.
type Entry struct {
	Rank    int
	Title   string
	Artist  string
	LastPos *int // nil when the provider did not report a value
	PeakPos *int
	Weeks   *int
	IsNew   bool
	Image   *string
}

// LastWeek returns the last-week position, treating 0 the same as absent.
func (e Entry) LastWeek() *int {
	if e.LastPos == nil || *e.LastPos == 0 {
		return nil
	}
	v := *e.LastPos
	return &v
}

// Snapshot is the full set of entries for one chart on one resolved week (or
// year, for year-end charts).
type Snapshot struct {
	Chart        string
	Date         string // resolved date; YYYY-MM-DD, or YYYY for year-end
	PreviousDate string // "" when there is no earlier week
	NextDate     string // "" when there is no later week
	Entries      []Entry
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Empty reports whether the snapshot is nil or has no entries.
func (s *Snapshot) Empty() bool {
	return s.Len() == 0
}

// Validate checks that ranks are unique and contiguous from 1 in order and
// that a non-empty snapshot carries a resolved date.
func (s *Snapshot) Validate() error {
	if s.Empty() {
		return nil
	}
	if s.Date == "" {
		return fmt.Errorf("snapshot for %s has entries but no date", s.Chart)
	}
	for i, e := range s.Entries {
		if e.Rank != i+1 {
			return fmt.Errorf("snapshot for %s on %s: entry %d has rank %d", s.Chart, s.Date, i, e.Rank)
		}
	}
	return nil
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v, or nil when v is empty.
func StringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
