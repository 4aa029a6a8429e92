package util

import (
	"fmt"
	"time"
)

// DateLayout is the week date format used on the command line, in file names
// and by the providers.
const DateLayout = "2006-01-02"

// ValidateDate returns s unchanged when it is a valid YYYY-MM-DD calendar
// date, and a UsageError otherwise.
func ValidateDate(s string) (string, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", Usagef("Error: '%s' is not a valid YYYY-MM-DD date.", s)
	}
	return s, nil
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// ParseOptionalDate parses s when non-empty. An empty string yields the zero
// time. A malformed date is a UsageError.
func ParseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, Usagef("Error: '%s' is not a valid YYYY-MM-DD date.", s)
	}
	return t, nil
}
