package attendance

import (
	"fmt"
	"regexp"
	"time"
)

// DayKeyLayout is the canonical calendar-day key. The format is load-bearing:
// it is lexically sortable only because year, month and day appear
// fixed-width, most significant first. Any alternate representation must go
// through NormalizeDayKey before it is compared or stored.
const DayKeyLayout = "2006-01-02"

var monthKeyRegex = regexp.MustCompile(`^(\d{2})/\d{4}$`)

// DayKey formats t as a canonical day key in t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDayKey parses a canonical day key back into a time value.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// NormalizeDayKey canonicalizes an arbitrary date representation to a day
// key. Canonical keys pass through untouched; RFC3339 timestamps are
// converted to loc and truncated to the calendar day.
func NormalizeDayKey(raw string, loc *time.Location) (string, error) {
	if _, err := time.Parse(DayKeyLayout, raw); err == nil {
		return raw, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "", ErrInvalidDate
	}
	return DayKey(t.In(loc)), nil
}

// Today returns the current day's key in the reference location.
func Today(loc *time.Location) string {
	return DayKey(time.Now().In(loc))
}

// MonthKey builds the canonical MM/YYYY month key, month always two digits.
func MonthKey(month, year int) (string, error) {
	if month < 1 || month > 12 {
		return "", ErrInvalidMonth
	}
	return fmt.Sprintf("%02d/%d", month, year), nil
}

// MonthKeyFromDay derives the month key of the month containing the given day.
func MonthKeyFromDay(day string) (string, error) {
	t, err := ParseDayKey(day)
	if err != nil {
		return "", err
	}
	return MonthKey(int(t.Month()), t.Year())
}

// ValidMonthKey reports whether key is a canonical MM/YYYY month key.
func ValidMonthKey(key string) bool {
	m := monthKeyRegex.FindStringSubmatch(key)
	if m == nil {
		return false
	}
	return m[1] >= "01" && m[1] <= "12"
}
