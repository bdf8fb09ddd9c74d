package utils

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// ToLocal converts t to loc, falling back to UTC when loc is nil.
func ToLocal(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}

// ParseDay accepts YYYY-MM-DD (interpreted in loc) or an RFC 3339 timestamp.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// DayBounds returns [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ToLocal(t, loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}

// SameCalendarDay ignores the time of day.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	la, lb := ToLocal(a, loc), ToLocal(b, loc)
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}
