package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartWeekFromSnapshot(t *testing.T) {
	snap := &Snapshot{
		Chart: "hot-100",
		Date:  "2025-10-11",
		Entries: []Entry{
			{Rank: 1, Title: "A", Artist: "B", LastPos: IntPtr(0), PeakPos: IntPtr(1), Weeks: IntPtr(1), IsNew: true},
			{Rank: 2, Title: "C", Artist: "D", LastPos: IntPtr(1), PeakPos: IntPtr(1), Weeks: IntPtr(15)},
			{Rank: 3, Title: "E", Artist: "F"},
		},
	}

	week := ChartWeekFromSnapshot(snap)
	assert.Equal(t, "2025-10-11", week.Date)
	require.Len(t, week.Data, 3)
	assert.Nil(t, week.Data[0].LastWeek)
	assert.Equal(t, 1, *week.Data[1].LastWeek)
	assert.Nil(t, week.Data[2].LastWeek)

	raw, err := json.Marshal(week.Data[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"song":"E","artist":"F","this_week":3,"last_week":null,"peak_position":null,"weeks_on_chart":null,"new":false}`, string(raw))
}

func TestChartWeekEntries(t *testing.T) {
	var week ChartWeek
	require.NoError(t, json.Unmarshal([]byte(`{
		"date": "1958-08-04",
		"data": [
			{"song": "Poor Little Fool", "artist": "Ricky Nelson", "this_week": 1, "last_week": null, "peak_position": 1, "weeks_on_chart": 1},
			{"song": "Patricia", "artist": "Perez Prado", "this_week": 2, "last_week": 3, "peak_position": 2, "weeks_on_chart": 1},
			{"song": "Splish Splash", "artist": "Bobby Darin", "this_week": 3, "last_week": null, "peak_position": 3, "weeks_on_chart": 1, "new": false}
		]
	}`), &week))

	entries := week.Entries()
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsNew)
	assert.False(t, entries[1].IsNew)
	assert.False(t, entries[2].IsNew, "explicit new flag wins")
	assert.Equal(t, "Ricky Nelson", entries[0].Artist)
}
