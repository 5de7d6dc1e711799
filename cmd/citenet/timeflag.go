package main

import (
	"fmt"
	"time"
)

// parseTime accepts RFC3339 or a bare YYYY-MM-DD date, which is taken as
// midnight UTC.
func parseTime(value string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q: want RFC3339 or YYYY-MM-DD", value)
	}
	return d, true, nil
}

// parseAsOf returns the analysis time given by --as-of, or now when empty.
// A bare date covers the whole day, so citations made on it are included.
func parseAsOf(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	t, dateOnly, err := parseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %w", err)
	}
	if dateOnly {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
