package util

import (
	"regexp"
	"strconv"
	"time"
)

// DayFormat is the calendar-day layout used everywhere in the API and storage.
const DayFormat = "2006-01-02"

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDay parses a strict YYYY-MM-DD string into a UTC midnight time.
// Returns (t, true) only if the string matches the pattern and is a real
// calendar date (2024-02-30 fails).
func ParseDay(s string) (time.Time, bool) {
	if !dayPattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders t as YYYY-MM-DD in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// AddDays advances a YYYY-MM-DD string by n calendar days.
// The input must already be a valid day string.
func AddDays(day string, n int) string {
	t, ok := ParseDay(day)
	if !ok {
		return day
	}
	return FormatDay(t.AddDate(0, 0, n))
}

// DaysBetween returns the whole-day difference b - a for two day strings.
func DaysBetween(a, b string) int {
	ta, okA := ParseDay(a)
	tb, okB := ParseDay(b)
	if !okA || !okB {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
