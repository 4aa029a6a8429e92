// Package export renders chart snapshots as console tables, JSON and CSV
// documents, and writes the standardized per-week export files.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"bbcharts/internal/domain"
)

// Column widths of the console table.
const (
	colRank   = 4
	colTitle  = 40
	colArtist = 28
	colLast   = 7
	colPeak   = 7
	colWeeks  = 5
	colNew    = 3
)

const (
	colSep    = "  "
	ellipsis  = "…"
	tableNote = "(‘New’ marks entries that are new this week; artwork URL is in the 'image' field.)"
)

// WriteTable prints entries as a fixed-width table headed by the chart slug,
// date and entry count. Titles and artists longer than their column are
// truncated with an ellipsis; unreported values are blank. Widths count
// characters, not terminal columns.
func WriteTable(w io.Writer, chartSlug, date string, entries []domain.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No entries for %s on %s\n", chartSlug, date)
		return err
	}

	var b strings.Builder
	header := fmt.Sprintf("%s — %s — %d entries", chartSlug, date, len(entries))
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(header)) + "\n")

	b.WriteString(row("Rk", "Title", "Artist", "Last", "Peak", "Wks", "New"))
	width := colRank + colTitle + colArtist + colLast + colPeak + colWeeks + colNew + 7*len(colSep)
	b.WriteString(strings.Repeat("-", width) + "\n")

	for _, e := range entries {
		newFlag := ""
		if e.IsNew {
			newFlag = "Y"
		}
		b.WriteString(row(
			strconv.Itoa(e.Rank),
			truncate(e.Title, colTitle),
			truncate(e.Artist, colArtist),
			cell(e.LastPos),
			cell(e.PeakPos),
			cell(e.Weeks),
			newFlag,
		))
	}
	b.WriteString("\n" + tableNote + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func row(rank, title, artist, last, peak, weeks, isNew string) string {
	cols := []string{
		pad(rank, colRank),
		pad(title, colTitle),
		pad(artist, colArtist),
		pad(last, colLast),
		pad(peak, colPeak),
		pad(weeks, colWeeks),
		pad(isNew, colNew),
	}
	return strings.Join(cols, colSep) + "\n"
}

// truncate cuts s to width-1 characters plus an ellipsis when it has more
// than width characters.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-1]) + ellipsis
}

// pad left-aligns s in a field of width characters.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func cell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
