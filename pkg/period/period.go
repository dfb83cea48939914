package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	Day   Type = "day"
	Week  Type = "week"
	Month Type = "month"
	Year  Type = "year"
)

var ErrInvalidPeriodType = errors.New("invalid period type")
var ErrInvalidFirstWeekday = errors.New("first weekday must be sunday or monday")
var ErrInvalidFirstDayOfMonth = errors.New("first day of month must be between 1 and 28")

// MinDaysInFirstWeek is the number of days a week needs inside a year to be numbered as part of it.
const MinDaysInFirstWeek = 4

// MaxFirstDayOfMonth keeps every custom month start valid in February.
const MaxFirstDayOfMonth = 28

func ParseType(value string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case Day:
		return Day, nil
	case Week:
		return Week, nil
	case Month:
		return Month, nil
	case Year:
		return Year, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriodType, value)
}

func (t Type) Valid() bool {
	switch t {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// Config holds the user-facing calendar preferences used to cut periods.
type Config struct {
	FirstWeekday    time.Weekday
	FirstDayOfMonth int
}

func DefaultConfig() Config {
	return Config{FirstWeekday: time.Monday, FirstDayOfMonth: 1}
}

// Validate is meant for the configuration boundary. The calculator itself assumes a valid Config.
func (c Config) Validate() error {
	if c.FirstWeekday != time.Sunday && c.FirstWeekday != time.Monday {
		return ErrInvalidFirstWeekday
	}
	if c.FirstDayOfMonth < 1 || c.FirstDayOfMonth > MaxFirstDayOfMonth {
		return ErrInvalidFirstDayOfMonth
	}
	return nil
}

// ParseWeekday accepts "sunday" or "monday" in any case.
func ParseWeekday(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFirstWeekday, value)
}

// AddPeriods moves t by n whole units of the given period type. Month and year steps keep the
// day of month, clamped to the length of the target month (Jan 31 + 1 month is Feb 29 in 2024).
func AddPeriods(t time.Time, periodType Type, n int) time.Time {
	switch periodType {
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return addMonths(t, n)
	case Year:
		return addMonths(t, 12*n)
	}
	return t
}

func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	// day 1 never overflows, so time.Date only normalizes the month here
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day = min(day, DaysInMonth(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar day boundaries between from and to. It ignores the time of day
// and DST shifts, so it is negative when to falls on an earlier day.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	fromUTC := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC).Hours() / 24)
}
