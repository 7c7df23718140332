package study

import "time"

// DayKey returns the calendar-day key for the given instant in the
// class's local timezone. Daily counters are bucketed by this key.
func DayKey(now time.Time, tz *time.Location) string {
	return now.In(tz).Format("2006-01-02")
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
