package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"bbcharts/internal/domain"
)

// CSVHeader is the fixed column set of CSV dumps.
var CSVHeader = []string{"rank", "title", "artist", "lastPos", "peakPos", "weeks", "isNew", "image"}

// DumpEntry is one entry of a JSON dump.
type DumpEntry struct {
	Rank    int     `json:"rank"`
	Title   string  `json:"title"`
	Artist  string  `json:"artist"`
	LastPos *int    `json:"lastPos"`
	PeakPos *int    `json:"peakPos"`
	Weeks   *int    `json:"weeks"`
	IsNew   bool    `json:"isNew"`
	Image   *string `json:"image"`
}

// Dump is the JSON dump of a single chart week, including the week pointers.
type Dump struct {
	Chart        string      `json:"chart"`
	Date         string      `json:"date"`
	PreviousDate *string     `json:"previousDate"`
	NextDate     *string     `json:"nextDate"`
	Entries      []DumpEntry `json:"entries"`
}

// NewDump builds the dump document for snap. chartSlug is the slug as
// requested on the command line.
func NewDump(chartSlug string, snap *domain.Snapshot) Dump {
	d := Dump{
		Chart:        chartSlug,
		Date:         snap.Date,
		PreviousDate: domain.StringPtr(snap.PreviousDate),
		NextDate:     domain.StringPtr(snap.NextDate),
		Entries:      make([]DumpEntry, 0, snap.Len()),
	}
	for _, e := range snap.Entries {
		d.Entries = append(d.Entries, DumpEntry{
			Rank:    e.Rank,
			Title:   e.Title,
			Artist:  e.Artist,
			LastPos: e.LastPos,
			PeakPos: e.PeakPos,
			Weeks:   e.Weeks,
			IsNew:   e.IsNew,
			Image:   e.Image,
		})
	}
	return d
}

// EncodeJSON writes v as indented UTF-8 JSON without escaping HTML or
// non-ASCII characters.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFile encodes v into path, creating parent directories.
func WriteJSONFile(path string, v any) error {
	return writeFile(path, func(w io.Writer) error { return EncodeJSON(w, v) })
}

// WriteCSV writes the entries with CSVHeader as the first row. Unreported
// values are empty and isNew is True or False.
func WriteCSV(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		image := ""
		if e.Image != nil {
			image = *e.Image
		}
		isNew := "False"
		if e.IsNew {
			isNew = "True"
		}
		rec := []string{
			strconv.Itoa(e.Rank),
			e.Title,
			e.Artist,
			cell(e.LastPos),
			cell(e.PeakPos),
			cell(e.Weeks),
			isNew,
			image,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes a CSV dump of entries to path.
func WriteCSVFile(path string, entries []domain.Entry) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, entries) })
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
