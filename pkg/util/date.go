package util

import "time"

// DateLayout is the calendar-day format used by dashboard queries and payloads.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

// DateInRange reports whether day falls in [start, end]. Empty or unparsable bounds are open.
func DateInRange(day, start, end string) bool {
	d, ok := ParseDate(day)
	if !ok {
		return false
	}
	if s, ok := ParseDate(start); ok && d.Before(s) {
		return false
	}
	if e, ok := ParseDate(end); ok && d.After(e) {
		return false
	}
	return true
}

// DaysBetween counts whole days from start to end, or def if either is unparsable or end precedes start.
func DaysBetween(start, end string, def int) int {
	s, ok1 := ParseDate(start)
	e, ok2 := ParseDate(end)
	if !ok1 || !ok2 || e.Before(s) {
		return def
	}
	return int(e.Sub(s).Hours() / 24)
}

// EpochMillis normalises a unix timestamp given in seconds or milliseconds to milliseconds.
func EpochMillis(ts int64) int64 {
	if ts > 0 && ts < 1e11 {
		return ts * 1000
	}
	return ts
}
