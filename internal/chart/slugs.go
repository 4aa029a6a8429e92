package chart

import (
	"slices"
	"strings"
)

// KnownCharts is a starter list of chart slugs shown when the walker prompts
// for a chart. Any valid slug may be used.
var KnownCharts = []string{
	"hot-100",
	"billboard-200",
	"artist-100",
	"digital-song-sales",
	"radio-songs",
	"streaming-songs",
	"pop-songs",
	"r-b-hip-hop-songs",
	"country-songs",
	"dance-electronic-songs",
	"latin-songs",
	"rock-songs",
	"hot-alternative-songs",
}

// exportCharts is the curated set of stable slugs the exporter accepts.
var exportCharts = map[string]struct{}{
	"hot-100":                    {},
	"alternative-airplay":        {},
	"country-songs":              {},
	"hot-mainstream-rock-tracks": {},
	"latin-airplay":              {},
	"r-and-b-songs":              {},
	"rap-song":                   {},
}

// ExportAllowed reports whether slug is in the exporter allow-list.
func ExportAllowed(slug string) bool {
	_, ok := exportCharts[slug]
	return ok
}

// ExportCharts returns the exporter allow-list, sorted.
func ExportCharts() []string {
	out := make([]string, 0, len(exportCharts))
	for s := range exportCharts {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// SafeSlug makes a slug usable as a single path element.
func SafeSlug(slug string) string {
	return strings.ReplaceAll(slug, "/", "-")
}
