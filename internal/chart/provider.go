// Package chart fetches chart snapshots from a chart data provider: the
// Billboard website itself, or the static hot-100 JSON mirror.
package chart

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"bbcharts/internal/config"
	"bbcharts/internal/domain"
	"bbcharts/internal/util"
)

// Sources accepted by New.
const (
	SourceBillboard = "billboard"
	SourceMirror    = "mirror"
)

var (
	// ErrNoChart is returned when the provider answered but the response
	// contained no chart at all.
	ErrNoChart = errors.New("no chart returned")

	// ErrNotFound is returned when the provider has no page for the request.
	ErrNotFound = errors.New("chart not found")

	// ErrUnsupported is returned when a provider cannot serve a kind of
	// request, e.g. year-end charts from the mirror.
	ErrUnsupported = errors.New("not supported by this provider")
)

// Provider fetches chart snapshots. Implementations never cache: every call
// performs a request.
type Provider interface {
	// Fetch returns the snapshot for chart nearest to date. An empty date
	// requests the latest available week.
	Fetch(ctx context.Context, chart, date string) (*domain.Snapshot, error)

	// FetchYearEnd returns the year-end snapshot for chart and year.
	FetchYearEnd(ctx context.Context, chart string, year int) (*domain.Snapshot, error)
}

// Options configures the HTTP side of a provider.
type Options struct {
	BaseURL       string
	ValidDatesURL string
	UserAgent     string
	Timeout       time.Duration
	Logger        *slog.Logger
}

// OptionsFromConfig builds provider options from the loaded configuration.
// A positive timeout overrides the configured one.
func OptionsFromConfig(cfg config.Provider, timeout time.Duration, logger *slog.Logger) Options {
	if timeout <= 0 {
		timeout = util.Seconds(cfg.Timeout)
	}
	base := cfg.BaseURL
	if strings.EqualFold(cfg.Source, SourceMirror) {
		base = cfg.MirrorURL
	}
	return Options{
		BaseURL:       base,
		ValidDatesURL: cfg.ValidDatesURL,
		UserAgent:     cfg.UserAgent,
		Timeout:       timeout,
		Logger:        logger,
	}
}

// New returns the provider named by source.
func New(source string, opts Options) (Provider, error) {
	switch strings.ToLower(source) {
	case "", SourceBillboard:
		return NewBillboardClient(opts), nil
	case SourceMirror:
		return NewMirrorClient(opts), nil
	default:
		return nil, util.Usagef("unknown chart source %q (want %s or %s)", source, SourceBillboard, SourceMirror)
	}
}

// NewHTTPClient creates the resty client shared by the providers and the
// valid-dates loader.
func NewHTTPClient(opts Options) *resty.Client {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept-Language", "en-US,en;q=0.9")
	if opts.BaseURL != "" {
		client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return client
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}
