package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/klokku/spendpace/pkg/period"
)

var ErrInvalidTimezone = errors.New("invalid timezone")

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	Timezone     string
	WeekFirstDay time.Weekday
	// MonthFirstDay is the day of month a custom "month" starts on, 1 for calendar months.
	MonthFirstDay int
}

func DefaultSettings(defaults period.Config) Settings {
	return Settings{
		Timezone:      "UTC",
		WeekFirstDay:  defaults.FirstWeekday,
		MonthFirstDay: defaults.FirstDayOfMonth,
	}
}

// PeriodConfig returns the calendar preferences the period calculator is built with.
func (s Settings) PeriodConfig() period.Config {
	return period.Config{
		FirstWeekday:    s.WeekFirstDay,
		FirstDayOfMonth: s.MonthFirstDay,
	}
}

// Location falls back to UTC when the timezone is empty or unknown.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s Settings) Validate() error {
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimezone, s.Timezone)
	}
	return s.PeriodConfig().Validate()
}
