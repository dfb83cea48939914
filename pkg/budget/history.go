package budget

import (
	"time"

	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/shopspring/decimal"
)

// PeriodSpend is the outcome of one recurring period of a budget.
type PeriodSpend struct {
	Start      time.Time
	End        time.Time
	Amount     decimal.Decimal
	Spent      decimal.Decimal
	OverBudget bool
	Current    bool
}

// History returns up to n periods ending with the one holding now, oldest first. It never goes
// back past the budget's first period.
func History(budget Budget, transactions []transaction.Transaction, now time.Time, n int) []PeriodSpend {
	if n <= 0 {
		return []PeriodSpend{}
	}
	current := budget.periodIndex(now)
	first := max(current-n+1, 0)

	history := make([]PeriodSpend, 0, current-first+1)
	for i := first; i <= current; i++ {
		start, end := budget.periodStart(i), budget.periodStart(i+1)
		spent := SpentBetween(budget, transactions, start, end, now)
		history = append(history, PeriodSpend{
			Start:      start,
			End:        end,
			Amount:     budget.Amount,
			Spent:      spent,
			OverBudget: spent.GreaterThanOrEqual(budget.Amount),
			Current:    i == current,
		})
	}
	return history
}

// HistoryRange is the [from, to) span covered by History for the same arguments.
func HistoryRange(budget Budget, now time.Time, n int) (time.Time, time.Time) {
	current := budget.periodIndex(now)
	first := max(current-max(n, 1)+1, 0)
	return budget.periodStart(first), budget.periodStart(current + 1)
}
