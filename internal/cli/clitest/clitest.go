// Package clitest provides an in-memory chart provider and captured process
// streams for testing the command-line tools.
package clitest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"bbcharts/internal/chart"
	"bbcharts/internal/cli"
	"bbcharts/internal/domain"
)

// Provider serves snapshots from memory. Weeks are keyed by the requested
// date; the empty key is the latest week.
type Provider struct {
	Weeks   map[string]*domain.Snapshot
	Years   map[int]*domain.Snapshot
	Err     error
	Fetched []string
	Probed  []int
}

// Fetch returns Err when set, the snapshot for date, or chart.ErrNotFound.
func (p *Provider) Fetch(_ context.Context, slug, date string) (*domain.Snapshot, error) {
	p.Fetched = append(p.Fetched, date)
	if p.Err != nil {
		return nil, p.Err
	}
	snap, ok := p.Weeks[date]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", slug, date, chart.ErrNotFound)
	}
	return snap, nil
}

// FetchYearEnd returns the snapshot for year or chart.ErrNotFound.
func (p *Provider) FetchYearEnd(_ context.Context, slug string, year int) (*domain.Snapshot, error) {
	p.Probed = append(p.Probed, year)
	snap, ok := p.Years[year]
	if !ok {
		return nil, fmt.Errorf("%s %d: %w", slug, year, chart.ErrNotFound)
	}
	return snap, nil
}

// Week builds a snapshot with the given entries.
func Week(date, prev string, entries ...domain.Entry) *domain.Snapshot {
	return &domain.Snapshot{Chart: "hot-100", Date: date, PreviousDate: prev, Entries: entries}
}

// Streams holds captured output.
type Streams struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// NewEnv returns an Env that always uses p, records the requested source,
// and answers prompts with answer. It also isolates the test from any
// config file or environment overrides.
func NewEnv(t *testing.T, p chart.Provider, answer string) (cli.Env, *Streams) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range []string{
		"BBCHARTS_CONFIG", "BILLBOARD_SOURCE", "BILLBOARD_BASE_URL", "BILLBOARD_MIRROR_URL",
		"BILLBOARD_VALID_DATES_URL", "CHARTS_OUT_ROOT", "CHARTS_ARCHIVE_DIR", "CHARTS_MANIFEST", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	s := &Streams{}
	env := cli.Env{
		Stdout: &s.Stdout,
		Stderr: &s.Stderr,
		NewProvider: func(source string, _ chart.Options) (chart.Provider, error) {
			if _, err := chart.New(source, chart.Options{}); err != nil {
				return nil, err
			}
			return p, nil
		},
		Prompt: func(string) (string, error) { return answer, nil },
	}
	return env, s
}
