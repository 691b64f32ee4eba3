package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	MaxStayNights = 365
)

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Nights counts whole calendar days between start and end.
func Nights(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}
