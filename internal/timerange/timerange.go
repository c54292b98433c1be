package timerange

import (
	"fmt"
	"strings"
	"time"

	"github.com/christopherklint97/goclockify/clockify"
	naturaldate "github.com/tj/go-naturaldate"
)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse resolves expr relative to now. Absolute dates are read in now's
// location; anything else goes through natural-language parsing, looking
// into the past ("yesterday", "2 hours ago", "last monday").
func Parse(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	if strings.EqualFold(expr, "now") {
		return now, nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	t, err := naturaldate.Parse(expr, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", expr, err)
	}
	return t, nil
}

// Range bounds entry start times. A zero bound is open.
type Range struct {
	Since time.Time
	Until time.Time
}

// ParseRange parses optional since/until expressions. Empty strings leave
// that side of the range open.
func ParseRange(since, until string, now time.Time) (Range, error) {
	var r Range
	if since != "" {
		t, err := Parse(since, now)
		if err != nil {
			return Range{}, err
		}
		r.Since = t
	}
	if until != "" {
		t, err := Parse(until, now)
		if err != nil {
			return Range{}, err
		}
		r.Until = t
	}
	if !r.Since.IsZero() && !r.Until.IsZero() && r.Until.Before(r.Since) {
		return Range{}, fmt.Errorf("until (%s) is before since (%s)", r.Until.Format(time.RFC3339), r.Since.Format(time.RFC3339))
	}
	return r, nil
}

// Contains reports whether t falls in [Since, Until).
func (r Range) Contains(t time.Time) bool {
	if !r.Since.IsZero() && t.Before(r.Since) {
		return false
	}
	if !r.Until.IsZero() && !t.Before(r.Until) {
		return false
	}
	return true
}

// Filter keeps the entries whose start lies in r, preserving order.
func Filter(entries []clockify.TimeEntry, r Range) []clockify.TimeEntry {
	var kept []clockify.TimeEntry
	for _, e := range entries {
		if r.Contains(e.Start) {
			kept = append(kept, e)
		}
	}
	return kept
}
