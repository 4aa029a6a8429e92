package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseChartPage(t *testing.T) {
	snap, err := ParseChartPage(openFixture(t, "hot-100-2025-10-11.html"), "hot-100")
	require.NoError(t, err)

	assert.Equal(t, "hot-100", snap.Chart)
	assert.Equal(t, "2025-10-11", snap.Date)
	assert.Equal(t, "2025-10-04", snap.PreviousDate)
	assert.Equal(t, "2025-10-18", snap.NextDate)
	require.Equal(t, 3, snap.Len())
	require.NoError(t, snap.Validate(), "rows are sorted into rank order")

	first := snap.Entries[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "The Fate Of Ophelia", first.Title)
	assert.Equal(t, "Taylor Swift", first.Artist)
	assert.True(t, first.IsNew)
	assert.Nil(t, first.LastPos, "'-' is not a position")
	require.NotNil(t, first.PeakPos)
	assert.Equal(t, 1, *first.PeakPos)
	require.NotNil(t, first.Weeks)
	assert.Equal(t, 1, *first.Weeks)
	require.NotNil(t, first.Image)
	assert.Equal(t, "https://charts-static.billboard.com/img/2025/08/taylor-swift-fate-180x180.jpg", *first.Image)

	second := snap.Entries[1]
	assert.Equal(t, "Golden", second.Title)
	assert.Equal(t, "HUNTR/X: EJAE, Audrey Nuna & REI AMI", second.Artist)
	assert.False(t, second.IsNew)
	require.NotNil(t, second.LastPos)
	assert.Equal(t, 1, *second.LastPos)
	require.NotNil(t, second.Weeks)
	assert.Equal(t, 15, *second.Weeks)
	require.NotNil(t, second.Image)
	assert.True(t, strings.HasSuffix(*second.Image, "golden-180x180.jpg"))

	third := snap.Entries[2]
	assert.Equal(t, 3, third.Rank)
	assert.Nil(t, third.Image)
	require.NotNil(t, third.LastPos)
	assert.Equal(t, 2, *third.LastPos)
	assert.Equal(t, 31, *third.Weeks)
}

func TestParseChartPageIgnoresOtherCharts(t *testing.T) {
	snap, err := ParseChartPage(openFixture(t, "hot-100-2025-10-11.html"), "billboard-200")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-09", snap.PreviousDate, "only billboard-200 links count")
	assert.Empty(t, snap.NextDate)
}

func TestParseChartPageEmpty(t *testing.T) {
	_, err := ParseChartPage(openFixture(t, "empty.html"), "hot-100")
	assert.ErrorIs(t, err, ErrNoChart)
}

func TestParseChartPageWithoutLinks(t *testing.T) {
	page := `<html><body>
<button id="chart-date-picker" data-date="1958-08-04"></button>
<ul class="o-chart-results-list-row" data-detail-target="1">
  <li><span class="c-label">1</span></li>
  <li><h3 id="title-of-a-story">Poor Little Fool</h3><span class="c-label">Ricky Nelson</span></li>
  <li><span class="c-label">NEW</span></li>
  <li><span class="c-label">-</span></li><li><span class="c-label">1</span></li><li><span class="c-label">1</span></li>
</ul>
</body></html>`
	snap, err := ParseChartPage(strings.NewReader(page), "hot-100")
	require.NoError(t, err)
	assert.Equal(t, "1958-08-04", snap.Date)
	assert.Empty(t, snap.PreviousDate, "earliest week has no previous pointer")
	assert.Empty(t, snap.NextDate)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "Ricky Nelson", snap.Entries[0].Artist)
}

func TestParseChartPageEntriesWithoutDate(t *testing.T) {
	page := `<ul class="o-chart-results-list-row" data-detail-target="1">
  <li><span class="c-label">1</span></li>
  <li><h3 id="title-of-a-story">Song</h3><span class="c-label">Artist</span></li>
</ul>`
	_, err := ParseChartPage(strings.NewReader(page), "hot-100")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoChart)
}

func TestParseYearEndPage(t *testing.T) {
	snap, err := ParseYearEndPage(openFixture(t, "year-end-2024-hot-100.html"), "hot-100", 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024", snap.Date)
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, 1, snap.Entries[0].Rank)
	assert.Equal(t, "Lose Control", snap.Entries[0].Title)
	assert.Equal(t, "Shaboozey", snap.Entries[1].Artist)
	assert.Nil(t, snap.Entries[1].Weeks)

	_, err = ParseYearEndPage(openFixture(t, "empty.html"), "hot-100", 1900)
	assert.ErrorIs(t, err, ErrNoChart)
}
