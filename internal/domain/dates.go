package domain

import (
	"fmt"
	"time"
)

// DateKey is the canonical calendar-date format used as the record key.
// Lexicographic comparison of two DateKey strings matches chronological order.
const DateKey = "2006-01-02"

// FormatDate renders a time as a YYYY-MM-DD key in the local calendar.
func FormatDate(t time.Time) string {
	return t.Format(DateKey)
}

// ParseDate parses a YYYY-MM-DD key back into a midnight UTC time.
func ParseDate(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKey, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", key, err)
	}
	return t, nil
}

// AddDays shifts a date key by n calendar days (n may be negative).
func AddDays(key string, n int) (string, error) {
	t, err := ParseDate(key)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Same day returns 0; b before a returns a negative count.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// ISOWeek returns "YYYY-Www" for the given date key.
// Used as the weekId handed to the narrative generator.
func ISOWeek(key string) (string, error) {
	t, err := ParseDate(key)
	if err != nil {
		return "", err
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week), nil
}
