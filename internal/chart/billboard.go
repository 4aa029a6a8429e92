package chart

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"bbcharts/internal/domain"
)

// Compile-time interface check.
var _ Provider = (*BillboardClient)(nil)

// BillboardClient fetches and parses chart pages from the Billboard website.
type BillboardClient struct {
	client *resty.Client
	log    *slog.Logger
}

// NewBillboardClient creates a client for opts.BaseURL.
func NewBillboardClient(opts Options) *BillboardClient {
	return &BillboardClient{
		client: NewHTTPClient(opts),
		log:    loggerOr(opts.Logger),
	}
}

// Fetch implements Provider.
func (c *BillboardClient) Fetch(ctx context.Context, chart, date string) (*domain.Snapshot, error) {
	body, err := c.get(ctx, weekPath(chart, date))
	if err != nil {
		return nil, err
	}
	snap, err := ParseChartPage(bytes.NewReader(body), chart)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		c.log.WarnContext(ctx, "chart page failed validation", "chart", chart, "error", err)
	}
	return snap, nil
}

// FetchYearEnd implements Provider.
func (c *BillboardClient) FetchYearEnd(ctx context.Context, chart string, year int) (*domain.Snapshot, error) {
	body, err := c.get(ctx, yearEndPath(chart, year))
	if err != nil {
		return nil, err
	}
	return ParseYearEndPage(bytes.NewReader(body), chart, year)
}

func (c *BillboardClient) get(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	res, err := c.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	c.log.DebugContext(ctx, "fetched chart page",
		"path", path,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", path, res.Status())
	}
	return res.Body(), nil
}

// weekPath returns the chart page path; an empty date is the latest week.
func weekPath(chart, date string) string {
	p := "/charts/" + url.PathEscape(chart) + "/"
	if date != "" {
		p += date + "/"
	}
	return p
}

func yearEndPath(chart string, year int) string {
	return fmt.Sprintf("/charts/year-end/%d/%s/", year, url.PathEscape(chart))
}
