package insights

import (
	"math"
	"sort"
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/shopspring/decimal"
)

// VisibilityThreshold is the smallest share rendered as its own chart slice.
const VisibilityThreshold = 0.005

// CategoryShare is the part of a period total spent in one category. A nil CategoryId groups
// the uncategorized transactions.
type CategoryShare struct {
	CategoryId *int
	Amount     decimal.Decimal
	Percent    float64
}

type BreakdownResult struct {
	Window period.Window
	Filter transaction.Filter
	Total  decimal.Decimal
	Shares []CategoryShare
}

// Breakdown groups the same transactions Aggregate counts by category. Shares are sorted by
// percent descending, ties follow the category order and the uncategorized group goes last.
func Breakdown(
	transactions []transaction.Transaction,
	window period.Window,
	filter transaction.Filter,
	now time.Time,
	categories []transaction.Category,
) BreakdownResult {
	result := BreakdownResult{Window: window, Filter: filter, Total: decimal.Zero, Shares: make([]CategoryShare, 0)}

	amounts := make(map[int]decimal.Decimal)
	uncategorized := decimal.Zero
	hasUncategorized := false
	for _, t := range matching(transactions, window, filter, window.EffectiveEnd(now)) {
		result.Total = result.Total.Add(t.Amount)
		if t.CategoryId == nil {
			uncategorized = uncategorized.Add(t.Amount)
			hasUncategorized = true
			continue
		}
		amounts[*t.CategoryId] = amounts[*t.CategoryId].Add(t.Amount)
	}

	for categoryId, amount := range amounts {
		id := categoryId
		result.Shares = append(result.Shares, CategoryShare{CategoryId: &id, Amount: amount, Percent: share(amount, result.Total)})
	}
	if hasUncategorized {
		result.Shares = append(result.Shares, CategoryShare{Amount: uncategorized, Percent: share(uncategorized, result.Total)})
	}

	order := make(map[int]int, len(categories))
	for _, c := range categories {
		order[c.Id] = c.Order
	}
	sort.SliceStable(result.Shares, func(i, j int) bool {
		a, b := result.Shares[i], result.Shares[j]
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		if (a.CategoryId == nil) != (b.CategoryId == nil) {
			return b.CategoryId == nil
		}
		if a.CategoryId == nil {
			return false
		}
		orderA, orderB := rank(order, *a.CategoryId), rank(order, *b.CategoryId)
		if orderA != orderB {
			return orderA < orderB
		}
		return *a.CategoryId < *b.CategoryId
	})
	return result
}

// VisibleShares drops the slices below threshold for display. The total stays untouched.
func VisibleShares(shares []CategoryShare, threshold float64) []CategoryShare {
	visible := make([]CategoryShare, 0, len(shares))
	for _, s := range shares {
		if s.Percent >= threshold {
			visible = append(visible, s)
		}
	}
	return visible
}

func share(amount, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	percent, _ := amount.Div(total).Float64()
	return percent
}

// categories missing from the list sort after every known one
func rank(order map[int]int, categoryId int) int {
	if o, ok := order[categoryId]; ok {
		return o
	}
	return math.MaxInt
}
