package utils

import (
	"fmt"
	"time"
)

const MonthLayout = "2006-01"

// MonthWindow returns the half-open interval [start, end) covering the
// calendar month "YYYY-MM" in loc.
func MonthWindow(month string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(MonthLayout, month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, use YYYY-MM: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// PreviousMonth returns the "YYYY-MM" of the month before t.
func PreviousMonth(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, -1, 0).Format(MonthLayout)
}
