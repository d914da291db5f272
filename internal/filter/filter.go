// Package filter holds the recency predicate applied to fetched repositories.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/recent-repos/internal/model"
)

// ErrInvalidTimestamp is returned when a value is not a recognizable calendar date/time.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// layouts are tried in order. Zone-less layouts are read as UTC; fractional
// seconds are accepted after the seconds field without being spelled out.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseTimestamp parses an ISO-8601 style date or date-time.
func ParseTimestamp(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// UpdatedAfter keeps repositories updated strictly after cutoff, preserving input order.
// The result is never nil so an empty set still renders a header-only table.
func UpdatedAfter(repos []model.Repository, cutoff time.Time) []model.Repository {
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if r.Updated.After(cutoff) {
			out = append(out, r)
		}
	}
	return out
}
