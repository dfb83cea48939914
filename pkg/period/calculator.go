package period

import (
	"sort"
	"time"
)

// Window is a half-open period [Start, End) with the ordered sub-buckets used for charting.
// Buckets always cover the nominal window, even when part of it lies in the future.
type Window struct {
	Type    Type
	Start   time.Time
	End     time.Time
	Buckets []time.Time
}

// EffectiveEnd clips an open window at now. It never returns a time before Start.
func (w Window) EffectiveEnd(now time.Time) time.Time {
	if !w.End.After(now) {
		return w.End
	}
	if now.Before(w.Start) {
		return w.Start
	}
	return now
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// BucketIndex returns the index of the bucket whose span holds t, or -1 when t is outside the window.
func (w Window) BucketIndex(t time.Time) int {
	if !w.Contains(t) || len(w.Buckets) == 0 {
		return -1
	}
	// first bucket starting after t, the one before it holds t
	idx := sort.Search(len(w.Buckets), func(i int) bool {
		return w.Buckets[i].After(t)
	})
	return idx - 1
}

// BucketUnit is the granularity of the window's buckets.
func (w Window) BucketUnit() Type {
	if w.Type == Year {
		return Month
	}
	return Day
}

type Calculator struct {
	config Config
}

func NewCalculator(config Config) *Calculator {
	return &Calculator{config: config}
}

func (c *Calculator) Config() Config {
	return c.config
}

// Start returns the first instant of the period of the given type that holds anchor.
// All boundaries are midnights in anchor's location.
func (c *Calculator) Start(anchor time.Time, periodType Type) time.Time {
	day := StartOfDay(anchor)
	switch periodType {
	case Week:
		return weekStart(day, c.config.FirstWeekday)
	case Month:
		return c.monthStart(day)
	case Year:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
	}
	return day
}

// Window computes the boundaries and the bucket list of the period holding anchor.
func (c *Calculator) Window(anchor time.Time, periodType Type) Window {
	start := c.Start(anchor, periodType)
	end := AddPeriods(start, periodType, 1)
	return Window{
		Type:    periodType,
		Start:   start,
		End:     end,
		Buckets: buckets(start, end, periodType),
	}
}

func (c *Calculator) monthStart(day time.Time) time.Time {
	firstDay := c.config.FirstDayOfMonth
	if firstDay <= 1 {
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	}
	if day.Day() >= firstDay {
		return time.Date(day.Year(), day.Month(), firstDay, 0, 0, 0, 0, day.Location())
	}
	// time.Date normalizes month 0 to December of the previous year
	return time.Date(day.Year(), day.Month()-1, firstDay, 0, 0, 0, 0, day.Location())
}

func weekStart(day time.Time, firstWeekday time.Weekday) time.Time {
	delta := (int(day.Weekday()) - int(firstWeekday) + 7) % 7
	return day.AddDate(0, 0, -delta)
}

func buckets(start, end time.Time, periodType Type) []time.Time {
	if periodType == Year {
		result := make([]time.Time, 0, 12)
		for i := 0; i < 12; i++ {
			result = append(result, start.AddDate(0, i, 0))
		}
		return result
	}
	result := make([]time.Time, 0, 31)
	for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
		result = append(result, date)
	}
	return result
}
