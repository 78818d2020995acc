package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/levelup/internal/constants"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LastNDays returns n consecutive calendar days ending on ref's day, oldest first.
// Each value is midnight in ref's location.
func LastNDays(n int, ref time.Time) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	end := StartOfDay(ref)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		// AddDate keeps us on calendar boundaries across DST changes.
		days[i] = end.AddDate(0, 0, i-(n-1))
	}
	return days
}

// Window returns the standard grid/analytics window ending on ref's day.
func Window(ref time.Time) []time.Time {
	return LastNDays(constants.WindowDays, ref)
}

// FormatKey returns the canonical YYYY-MM-DD key of t's wall-clock date.
func FormatKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseKey parses a canonical date key. Only strings that FormatKey
// could have produced are accepted.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", key, err)
	}
	if FormatKey(t) != key {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", key)
	}
	return t, nil
}

// ValidateKey reports whether key is a canonical date key.
func ValidateKey(key string) bool {
	_, err := ParseKey(key)
	return err == nil
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// RetentionCutoff returns the oldest date key that survives pruning at now.
func RetentionCutoff(now time.Time) string {
	return FormatKey(now.AddDate(0, 0, -constants.RetentionDays))
}
