package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// DayKey returns the YYYY-MM-DD key of t's calendar day in loc.
// A nil loc uses t's own location.
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(constants.DateFormat)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDayInLocation parses a day-key as midnight in loc.
func ParseDayInLocation(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateDayKey checks that day is a canonical YYYY-MM-DD key.
func ValidateDayKey(day string) bool {
	t, err := time.Parse(constants.DateFormat, day)
	return err == nil && t.Format(constants.DateFormat) == day
}

// ParseMonth parses a YYYY-MM string into the first day of that month in loc.
func ParseMonth(month string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.MonthFormat, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", month, err)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc), nil
}

// MonthGrid lays out a month as calendar cells, Sunday first. Leading cells
// before the first of the month are zero times.
func MonthGrid(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]time.Time, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, time.Time{})
	}
	for d := 1; d <= daysInMonth; d++ {
		cells = append(cells, time.Date(year, month, d, 0, 0, 0, 0, loc))
	}
	return cells
}
