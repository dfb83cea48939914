package insights

import (
	"testing"
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categorized(t transaction.Transaction, categoryId int) transaction.Transaction {
	t.CategoryId = &categoryId
	return t
}

func shareIds(shares []CategoryShare) []int {
	ids := make([]int, 0, len(shares))
	for _, s := range shares {
		if s.CategoryId == nil {
			ids = append(ids, 0)
			continue
		}
		ids = append(ids, *s.CategoryId)
	}
	return ids
}

func TestBreakdown_SortedByShare(t *testing.T) {
	// given
	window := mondayCalculator.Window(day(2024, 1, 15), period.Month)
	categories := []transaction.Category{
		{Id: 1, Name: "Food", Order: 3},
		{Id: 2, Name: "Rent", Order: 1},
		{Id: 3, Name: "Fun", Order: 2},
	}
	transactions := []transaction.Transaction{
		categorized(expense(day(2024, 1, 2), "20"), 1),
		categorized(expense(day(2024, 1, 20), "30"), 1),
		categorized(expense(day(2024, 1, 1), "100"), 2),
		categorized(expense(day(2024, 1, 5), "25"), 3),
		expense(day(2024, 1, 6), "25"),
		categorized(income(day(2024, 1, 6), "5000"), 4),
	}

	// when
	result := Breakdown(transactions, window, transaction.FilterExpense, day(2024, 3, 1), categories)

	// then
	assertDecimal(t, "200", result.Total)
	assert.Equal(t, []int{2, 1, 3, 0}, shareIds(result.Shares))
	assert.InDelta(t, 0.5, result.Shares[0].Percent, 1e-9)
	assert.InDelta(t, 0.25, result.Shares[1].Percent, 1e-9)
	assert.InDelta(t, 0.125, result.Shares[2].Percent, 1e-9)
	assert.InDelta(t, 0.125, result.Shares[3].Percent, 1e-9)
	assert.Nil(t, result.Shares[3].CategoryId)
}

func TestBreakdown_TiesFollowCategoryOrder(t *testing.T) {
	window := mondayCalculator.Window(day(2024, 1, 15), period.Month)
	categories := []transaction.Category{
		{Id: 10, Order: 5},
		{Id: 11, Order: 2},
		{Id: 12, Order: 9},
	}
	transactions := []transaction.Transaction{
		categorized(expense(day(2024, 1, 1), "10"), 12),
		categorized(expense(day(2024, 1, 2), "10"), 10),
		categorized(expense(day(2024, 1, 3), "10"), 11),
		categorized(expense(day(2024, 1, 4), "10"), 99), // not in the category list
	}

	for i := 0; i < 20; i++ {
		result := Breakdown(transactions, window, transaction.FilterExpense, day(2024, 3, 1), categories)
		require.Equal(t, []int{11, 10, 12, 99}, shareIds(result.Shares))
	}
}

func TestBreakdown_SharesSumToOne(t *testing.T) {
	window := mondayCalculator.Window(day(2024, 1, 15), period.Year)
	transactions := make([]transaction.Transaction, 0)
	for i := 0; i < 300; i++ {
		tx := expense(day(2024, 1, 1).AddDate(0, 0, i), "3.33")
		if i%7 != 0 {
			tx = categorized(tx, i%11)
		}
		transactions = append(transactions, tx)
	}

	result := Breakdown(transactions, window, transaction.FilterExpense, day(2025, 1, 1), nil)

	sum := 0.0
	for _, s := range result.Shares {
		sum += s.Percent
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assertDecimal(t, "999", result.Total)
}

func TestBreakdown_ExcludesFuture(t *testing.T) {
	window := mondayCalculator.Window(day(2024, 1, 3), period.Week)
	transactions := []transaction.Transaction{
		categorized(expense(day(2024, 1, 1), "10"), 1),
		categorized(expense(day(2024, 1, 6), "90"), 2),
	}

	result := Breakdown(transactions, window, transaction.FilterExpense, day(2024, 1, 3).Add(time.Hour), nil)

	assertDecimal(t, "10", result.Total)
	require.Len(t, result.Shares, 1)
	assert.InDelta(t, 1.0, result.Shares[0].Percent, 1e-9)
}

func TestBreakdown_Empty(t *testing.T) {
	window := mondayCalculator.Window(day(2024, 1, 3), period.Week)

	result := Breakdown(nil, window, transaction.FilterExpense, day(2024, 2, 1), nil)

	assert.True(t, result.Total.IsZero())
	assert.Empty(t, result.Shares)
}

func TestVisibleShares_KeepsTotal(t *testing.T) {
	// given
	window := mondayCalculator.Window(day(2024, 1, 15), period.Month)
	transactions := []transaction.Transaction{
		categorized(expense(day(2024, 1, 1), "996"), 1),
		categorized(expense(day(2024, 1, 2), "4"), 2), // 0.4%
	}
	result := Breakdown(transactions, window, transaction.FilterExpense, day(2024, 3, 1), nil)

	// when
	visible := VisibleShares(result.Shares, VisibilityThreshold)

	// then
	assert.Len(t, result.Shares, 2)
	require.Len(t, visible, 1)
	assert.Equal(t, 1, *visible[0].CategoryId)
	assertDecimal(t, "1000", result.Total)
}
