package domain

// ChartWeek is the standardized per-week export document:
//
//	{"date": "...", "data": [{"song": ..., "this_week": ..., ...}]}
//
// The static hot-100 mirror publishes the same layout, so it doubles as the
// mirror's wire format.
type ChartWeek struct {
	Date string       `json:"date"`
	Data []WeekRecord `json:"data"`
}

// WeekRecord is one row of a ChartWeek.
type WeekRecord struct {
	Song         string `json:"song"`
	Artist       string `json:"artist"`
	ThisWeek     int    `json:"this_week"`
	LastWeek     *int   `json:"last_week"`
	PeakPosition *int   `json:"peak_position"`
	WeeksOnChart *int   `json:"weeks_on_chart"`
	New          *bool  `json:"new,omitempty"`
}

// ChartWeekFromSnapshot converts a snapshot into the standardized export
// layout. A last-week position of 0 is written as null.
func ChartWeekFromSnapshot(s *Snapshot) ChartWeek {
	out := ChartWeek{Date: s.Date, Data: make([]WeekRecord, 0, s.Len())}
	for _, e := range s.Entries {
		isNew := e.IsNew
		out.Data = append(out.Data, WeekRecord{
			Song:         e.Title,
			Artist:       e.Artist,
			ThisWeek:     e.Rank,
			LastWeek:     e.LastWeek(),
			PeakPosition: e.PeakPos,
			WeeksOnChart: e.Weeks,
			New:          &isNew,
		})
	}
	return out
}

// Entries converts the records back into chart entries. When a record has no
// "new" field, an entry is considered new if it has no last-week position and
// is in its first week.
func (w ChartWeek) Entries() []Entry {
	entries := make([]Entry, 0, len(w.Data))
	for _, r := range w.Data {
		e := Entry{
			Rank:    r.ThisWeek,
			Title:   r.Song,
			Artist:  r.Artist,
			LastPos: r.LastWeek,
			PeakPos: r.PeakPosition,
			Weeks:   r.WeeksOnChart,
		}
		if r.New != nil {
			e.IsNew = *r.New
		} else {
			e.IsNew = e.LastWeek() == nil && r.WeeksOnChart != nil && *r.WeeksOnChart == 1
		}
		entries = append(entries, e)
	}
	return entries
}
