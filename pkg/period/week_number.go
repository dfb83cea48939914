package period

import (
	"fmt"
	"time"
)

type WeekNumber struct {
	Week int
	Year int
}

// WeekNumberFor numbers the week holding date for weeks starting on firstWeekday.
// A week belongs to the year that holds at least MinDaysInFirstWeek of its days, which for
// Monday-started weeks is exactly the ISO 8601 week.
func WeekNumberFor(date time.Time, firstWeekday time.Weekday) WeekNumber {
	start := weekStart(StartOfDay(date), firstWeekday)
	pivot := start.AddDate(0, 0, MinDaysInFirstWeek-1)
	return WeekNumber{Year: pivot.Year(), Week: (pivot.YearDay()-1)/7 + 1}
}

// String returns the ISO week format e.g. "2025-W03"
func (w WeekNumber) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}
