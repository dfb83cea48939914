package budget

import (
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/shopspring/decimal"
)

type PaceState string

const (
	OnPace   PaceState = "on_pace"
	OverPace PaceState = "over_pace"
)

const minutesPerDay = 24 * 60

type PacingSummary struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Amount      decimal.Decimal
	SpentToDate decimal.Decimal
	// Difference is |Amount - SpentToDate|, read together with OverBudget.
	Difference              decimal.Decimal
	FractionTimeElapsed     float64
	FractionBudgetRemaining float64
	// TargetPercent is the share of the period still ahead, the position of the pace marker.
	TargetPercent float64
	PaceState     PaceState
	LeftPerDay    decimal.Decimal
	// TotalDays counts calendar days even for Day budgets, where it is 1.
	TotalDays int
	// TotalUnits and ElapsedUnits are what FractionTimeElapsed is measured in: minutes of the
	// day for Day budgets, days otherwise.
	TotalUnits   int
	ElapsedUnits int
	DaysPast     int
	DaysLeft     int
	OverBudget   bool
}

// Pace compares the spend of the budget's current period with a linear spending curve.
func Pace(budget Budget, transactions []transaction.Transaction, now time.Time) PacingSummary {
	start, end := budget.PeriodContaining(now)
	spent := SpentBetween(budget, transactions, start, end, now)
	return pace(budget, spent, start, end, now, period.DaysBetween(start, end))
}

// SpentBetween sums the expenses counted against the budget dated in [start, min(end, now)].
func SpentBetween(budget Budget, transactions []transaction.Transaction, start, end, now time.Time) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range transactions {
		if t.Income || t.Date.Before(start) || !t.Date.Before(end) || t.Date.After(now) {
			continue
		}
		if !budget.IsMain() && !t.HasCategory(*budget.CategoryId) {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	return spent
}

func pace(budget Budget, spent decimal.Decimal, start, end, now time.Time, totalDays int) PacingSummary {
	remaining := budget.Amount.Sub(spent)
	summary := PacingSummary{
		PeriodStart: start,
		PeriodEnd:   end,
		Amount:      budget.Amount,
		SpentToDate: spent,
		Difference:  remaining.Abs(),
		LeftPerDay:  decimal.Zero,
		TotalDays:   totalDays,
		OverBudget:  spent.GreaterThanOrEqual(budget.Amount),
	}
	if budget.Amount.IsPositive() {
		summary.FractionBudgetRemaining = remaining.Div(budget.Amount).InexactFloat64()
	}

	if budget.Type == period.Day {
		elapsed := clamp(int(now.Sub(start).Minutes()), 0, minutesPerDay)
		summary.TotalUnits = minutesPerDay
		summary.ElapsedUnits = elapsed
		summary.FractionTimeElapsed = float64(elapsed) / minutesPerDay
		// no intra-day marker, on pace while anything is left
		summary.PaceState = paceState(decimal.Zero, remaining)
		return summary
	}

	if totalDays <= 0 {
		summary.PaceState = paceState(decimal.Zero, remaining)
		return summary
	}
	daysPast := clamp(period.DaysBetween(start, now), 0, totalDays)
	daysAhead := max(totalDays-(daysPast+1), 0)
	total := decimal.NewFromInt(int64(totalDays))

	summary.DaysPast = daysPast
	summary.TotalUnits = totalDays
	summary.ElapsedUnits = daysPast
	summary.DaysLeft = totalDays - daysPast
	summary.FractionTimeElapsed = float64(daysPast) / float64(totalDays)
	summary.TargetPercent = float64(daysAhead) / float64(totalDays)
	// targetPercent*amount <= remaining, multiplied through by totalDays to stay exact
	summary.PaceState = paceState(decimal.NewFromInt(int64(daysAhead)).Mul(budget.Amount), remaining.Mul(total))
	if summary.DaysLeft > 0 {
		summary.LeftPerDay = remaining.Div(decimal.NewFromInt(int64(summary.DaysLeft)))
	}
	return summary
}

// paceState is on pace while the remaining budget covers the ideal spend of the days ahead.
func paceState(idealAhead, remaining decimal.Decimal) PaceState {
	if idealAhead.LessThanOrEqual(remaining) {
		return OnPace
	}
	return OverPace
}

func clamp(value, low, high int) int {
	return min(max(value, low), high)
}
