package chart

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bbcharts/internal/domain"
)

// Billboard chart page selectors.
const (
	datePickerSel = "#chart-date-picker"
	rowSel        = "ul.o-chart-results-list-row"
	titleSel      = "#title-of-a-story"
	artistSel     = "#title-of-a-story + span.c-label"
	labelSel      = "span.c-label"
)

var (
	statRe     = regexp.MustCompile(`^(\d+|-)$`)
	chartURLRe = regexp.MustCompile(`/charts/([^/?#]+)/(\d{4}-\d{2}-\d{2})/?`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// ParseChartPage parses a weekly Billboard chart page. The resolved date is
// read from the date picker; previous and next pointers are the closest
// earlier and later week links to the same chart found on the page.
func ParseChartPage(r io.Reader, chart string) (*domain.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing chart page: %w", err)
	}

	snap := &domain.Snapshot{
		Chart:   chart,
		Date:    strings.TrimSpace(doc.Find(datePickerSel).First().AttrOr("data-date", "")),
		Entries: parseRows(doc),
	}
	snap.PreviousDate, snap.NextDate = adjacentWeeks(doc, chart, snap.Date)

	if snap.Date == "" {
		if snap.Empty() {
			return nil, ErrNoChart
		}
		return nil, fmt.Errorf("chart page for %s has %d entries but no date", chart, snap.Len())
	}
	return snap, nil
}

// ParseYearEndPage parses a year-end chart page. Year-end pages carry no
// week pointers; the snapshot date is the year.
func ParseYearEndPage(r io.Reader, chart string, year int) (*domain.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing year-end page: %w", err)
	}
	snap := &domain.Snapshot{
		Chart:   chart,
		Date:    strconv.Itoa(year),
		Entries: parseRows(doc),
	}
	if snap.Empty() {
		return nil, ErrNoChart
	}
	return snap, nil
}

func parseRows(doc *goquery.Document) []domain.Entry {
	var entries []domain.Entry
	doc.Find(rowSel).Each(func(_ int, row *goquery.Selection) {
		title := cleanText(row.Find(titleSel).First().Text())
		if title == "" {
			return
		}

		labels := row.Find(labelSel)
		artistNode := row.Find(artistSel).First()

		rank, err := strconv.Atoi(strings.TrimSpace(row.AttrOr("data-detail-target", "")))
		if err != nil {
			rank, err = strconv.Atoi(cleanText(labels.First().Text()))
			if err != nil {
				return
			}
		}

		e := domain.Entry{
			Rank:   rank,
			Title:  title,
			Artist: cleanText(artistNode.Text()),
			Image:  imageURL(row.Find("img").First()),
		}

		// The first label is the rank; the artist label is skipped by node.
		var stats []string
		labels.Each(func(i int, lab *goquery.Selection) {
			if i == 0 || lab.IsSelection(artistNode) {
				return
			}
			text := cleanText(lab.Text())
			if strings.EqualFold(text, "NEW") {
				e.IsNew = true
				return
			}
			if statRe.MatchString(text) {
				stats = append(stats, text)
			}
		})
		if len(stats) >= 3 {
			stats = stats[len(stats)-3:]
			e.LastPos = statValue(stats[0])
			e.PeakPos = statValue(stats[1])
			e.Weeks = statValue(stats[2])
		}

		entries = append(entries, e)
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank < entries[j].Rank
	})
	return entries
}

// adjacentWeeks returns the closest linked week before and after date.
func adjacentWeeks(doc *goquery.Document, chart, date string) (prev, next string) {
	if date == "" {
		return "", ""
	}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		m := chartURLRe.FindStringSubmatch(a.AttrOr("href", ""))
		if m == nil || m[1] != chart {
			return
		}
		d := m[2]
		switch {
		case d < date && d > prev:
			prev = d
		case d > date && (next == "" || d < next):
			next = d
		}
	})
	return prev, next
}

func imageURL(img *goquery.Selection) *string {
	if img.Length() == 0 {
		return nil
	}
	src := strings.TrimSpace(img.AttrOr("data-lazy-src", ""))
	if src == "" {
		src = strings.TrimSpace(img.AttrOr("src", ""))
	}
	if strings.HasPrefix(src, "data:") || strings.Contains(src, "lazyload-fallback") {
		return nil
	}
	return domain.StringPtr(src)
}

func statValue(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
