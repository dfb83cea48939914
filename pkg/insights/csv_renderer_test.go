package insights

import (
	"testing"
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvRenderer_RenderSummary(t *testing.T) {
	// given
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	summary := PeriodSummary{
		Window: period.Window{Type: period.Week, Start: start, End: start.AddDate(0, 0, 3)},
		Buckets: []BucketValue{
			{Date: start, Amount: decimal.RequireFromString("10"), Elapsed: true},
			{Date: start.AddDate(0, 0, 1), Amount: decimal.RequireFromString("2.5"), Elapsed: true},
			{Date: start.AddDate(0, 0, 2), Amount: decimal.Zero, Elapsed: false},
		},
		Total:              decimal.RequireFromString("12.5"),
		Max:                decimal.RequireFromString("10"),
		Average:            decimal.RequireFromString("6.25"),
		ElapsedBucketCount: 2,
	}

	// when
	content, err := NewCsvRenderer().RenderSummary(summary)

	// then
	require.NoError(t, err)
	expected := "Date,Amount\n" +
		"2024-01-15,10.00\n" +
		"2024-01-16,2.50\n" +
		"2024-01-17,\n" +
		"Total,12.50\n" +
		"Average,6.25\n" +
		"Max,10.00\n"
	assert.Equal(t, expected, content)
}

func TestCsvRenderer_YearAndSingleBucket(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	summary := PeriodSummary{
		Window:             period.Window{Type: period.Year, Start: start, End: start.AddDate(1, 0, 0)},
		Buckets:            []BucketValue{{Date: start, Amount: decimal.RequireFromString("3"), Elapsed: true}},
		Total:              decimal.RequireFromString("3"),
		Max:                decimal.RequireFromString("3"),
		Average:            decimal.RequireFromString("3"),
		ElapsedBucketCount: 1,
	}

	content, err := NewCsvRenderer().RenderSummary(summary)

	require.NoError(t, err)
	assert.Equal(t, "Date,Amount\n2024-01,3.00\nTotal,3.00\nAverage,\nMax,3.00\n", content)
}
