package insights

import (
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// DefaultAxisMax is the chart axis maximum used when every bucket is zero.
var DefaultAxisMax = decimal.NewFromInt(10)

type BucketValue struct {
	Date   time.Time
	Amount decimal.Decimal
	// Elapsed is false for placeholder buckets that start after now.
	Elapsed bool
}

type PeriodSummary struct {
	Window       period.Window
	Filter       transaction.Filter
	EffectiveEnd time.Time
	Buckets      []BucketValue
	Total        decimal.Decimal
	Max          decimal.Decimal
	// Average divides by the elapsed buckets only.
	Average            decimal.Decimal
	ElapsedBucketCount int
	TransactionCount   int
}

// AverageMeaningful is false while at most one bucket has elapsed. Average still holds Total then.
func (s PeriodSummary) AverageMeaningful() bool {
	return s.ElapsedBucketCount > 1
}

// AxisMax is Max, or DefaultAxisMax when nothing was spent.
func (s PeriodSummary) AxisMax() decimal.Decimal {
	if s.Max.IsPositive() {
		return s.Max
	}
	return DefaultAxisMax
}

// Aggregate sums the matching transactions dated in [window.Start, effective end) into the
// window's buckets. Transactions are placed by their calendar day.
func Aggregate(transactions []transaction.Transaction, window period.Window, filter transaction.Filter, now time.Time) PeriodSummary {
	effectiveEnd := window.EffectiveEnd(now)
	summary := PeriodSummary{
		Window:       window,
		Filter:       filter,
		EffectiveEnd: effectiveEnd,
		Buckets:      make([]BucketValue, len(window.Buckets)),
		Total:        decimal.Zero,
		Max:          decimal.Zero,
	}
	for i, date := range window.Buckets {
		elapsed := !date.After(now)
		summary.Buckets[i] = BucketValue{Date: date, Amount: decimal.Zero, Elapsed: elapsed}
		if elapsed {
			summary.ElapsedBucketCount++
		}
	}

	for _, t := range matching(transactions, window, filter, effectiveEnd) {
		idx := window.BucketIndex(t.BucketDate())
		if idx < 0 {
			log.Tracef("transaction %d on %s falls outside of its window buckets, skipped", t.Id, t.BucketDate())
			continue
		}
		summary.Buckets[idx].Amount = summary.Buckets[idx].Amount.Add(t.Amount)
		summary.TransactionCount++
	}

	for _, bucket := range summary.Buckets {
		summary.Total = summary.Total.Add(bucket.Amount)
		if bucket.Amount.GreaterThan(summary.Max) {
			summary.Max = bucket.Amount
		}
	}
	summary.Average = summary.Total.Div(decimal.NewFromInt(int64(max(summary.ElapsedBucketCount, 1))))
	return summary
}

// matching keeps the transactions of the filter's direction dated in [window.Start, effectiveEnd).
func matching(transactions []transaction.Transaction, window period.Window, filter transaction.Filter, effectiveEnd time.Time) []transaction.Transaction {
	result := make([]transaction.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !filter.Matches(t) {
			continue
		}
		if t.Date.Before(window.Start) || !t.Date.Before(effectiveEnd) {
			continue
		}
		result = append(result, t)
	}
	return result
}
