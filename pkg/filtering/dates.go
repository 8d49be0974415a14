package filtering

import (
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, layout == "2006-01-02", nil
		}
		lastErr = err
	}
	return time.Time{}, false, lastErr
}

// DateBounds is an inclusive review date window. A bare end date covers the
// whole day.
type DateBounds struct {
	From time.Time
	To   time.Time
}

func ParseDateBounds(start, end string) (DateBounds, bool) {
	if start == "" || end == "" {
		return DateBounds{}, false
	}
	from, _, err := parseDate(start)
	if err != nil {
		return DateBounds{}, false
	}
	to, dateOnly, err := parseDate(end)
	if err != nil {
		return DateBounds{}, false
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	return DateBounds{From: from, To: to}, true
}

func (b DateBounds) Contains(date string) bool {
	t, _, err := parseDate(date)
	if err != nil {
		return false
	}
	return !t.Before(b.From) && !t.After(b.To)
}
