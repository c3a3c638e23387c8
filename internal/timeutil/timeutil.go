package timeutil

import (
	"fmt"
	"time"
)

var defaultLocation = time.UTC

const (
	dateLayout  = "2006-01-02"
	clockLayout = "03:04 PM"
)

// ResolveLocation loads the configured location. The bool is false when
// the name did not resolve and UTC was substituted.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, false
	}
	return loc, true
}

// ParseDate parses a YYYY-MM-DD date string in the provided location.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date value is required")
	}

	d, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
	}
	return d, nil
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatClock renders the clock portion of a time, e.g. "02:30 PM".
func FormatClock(t time.Time) string {
	return t.Format(clockLayout)
}

// Midnight truncates a time to the start of its day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayBounds returns the [start, end) window covering the whole day of date.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := Midnight(date, loc)
	return start, start.AddDate(0, 0, 1)
}

// HasClock reports whether t carries a time-of-day. Midnight is the
// sentinel for date-only values throughout the assistant.
func HasClock(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0
}

// At returns the given date with the clock set to hour:minute in loc.
func At(date time.Time, hour, minute int, loc *time.Location) time.Time {
	date = date.In(loc)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
}
