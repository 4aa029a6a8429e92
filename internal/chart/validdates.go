package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/go-resty/resty/v2"
)

// ErrBadDateList is returned when the valid-dates payload is not a JSON
// array of strings.
var ErrBadDateList = errors.New("valid dates payload is not a list of strings")

// LoadValidDates fetches the externally hosted list of valid chart dates and
// returns it sorted and de-duplicated.
func LoadValidDates(ctx context.Context, client *resty.Client, url string) ([]string, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching valid dates list: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetching valid dates list: unexpected status %s", res.Status())
	}
	return decodeValidDates(res.Body())
}

func decodeValidDates(body []byte) ([]string, error) {
	var dates []string
	if err := json.Unmarshal(body, &dates); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrBadDateList
		}
		return nil, fmt.Errorf("parsing valid dates JSON: %w", err)
	}
	if dates == nil {
		return nil, ErrBadDateList
	}
	slices.Sort(dates)
	return slices.Compact(dates), nil
}

// DatesSince returns the dates on or after since. dates must be sorted.
func DatesSince(dates []string, since string) []string {
	i, _ := slices.BinarySearch(dates, since)
	return slices.Clone(dates[i:])
}
