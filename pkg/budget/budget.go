package budget

import (
	"errors"
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/shopspring/decimal"
)

var ErrBudgetNotFound = errors.New("budget not found")
var ErrInvalidAmount = errors.New("budget amount must be positive")
var ErrMissingStartDate = errors.New("budget start date is required")
var ErrInvalidCategory = errors.New("budget category must be an existing expense category")

// Budget is a spending target recurring every period of Type, counted from StartDate.
// StartDate never changes after creation, every pacing period is derived from it.
type Budget struct {
	ID         int
	Name       string
	Amount     decimal.Decimal
	Type       period.Type
	StartDate  time.Time
	CategoryId *int
	Position   int
}

// IsMain reports whether the budget covers all expenses instead of a single category.
func (b Budget) IsMain() bool {
	return b.CategoryId == nil
}

func (b Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !b.Type.Valid() {
		return period.ErrInvalidPeriodType
	}
	if b.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	return nil
}

// PeriodContaining returns the recurring period [start, end) that holds now. Before StartDate
// it returns the first period.
func (b Budget) PeriodContaining(now time.Time) (time.Time, time.Time) {
	n := b.periodIndex(now)
	return b.periodStart(n), b.periodStart(n + 1)
}

func (b Budget) periodStart(n int) time.Time {
	return period.AddPeriods(b.StartDate, b.Type, n)
}

func (b Budget) periodIndex(now time.Time) int {
	if !b.Type.Valid() || now.Before(b.StartDate) {
		return 0
	}
	local := now.In(b.StartDate.Location())
	var n int
	switch b.Type {
	case period.Day:
		n = period.DaysBetween(b.StartDate, local)
	case period.Week:
		n = period.DaysBetween(b.StartDate, local) / 7
	case period.Month:
		n = (local.Year()-b.StartDate.Year())*12 + int(local.Month()) - int(b.StartDate.Month())
	case period.Year:
		n = local.Year() - b.StartDate.Year()
	}
	// the estimate is off by one around month ends and DST shifts
	for n > 0 && b.periodStart(n).After(now) {
		n--
	}
	for !b.periodStart(n + 1).After(now) {
		n++
	}
	return n
}
