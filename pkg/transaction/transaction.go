package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klokku/spendpace/pkg/period"
	"github.com/shopspring/decimal"
)

var ErrNegativeAmount = errors.New("amount must not be negative")
var ErrMissingDate = errors.New("transaction date is required")
var ErrInvalidFilter = errors.New("invalid transaction filter")

// Transaction is immutable once read. The direction is carried by Income, never by the sign of Amount.
type Transaction struct {
	Id   int
	Date time.Time
	// Day is Date normalized to the calendar day in the owner's timezone, computed on write.
	Day        time.Time
	Amount     decimal.Decimal
	Income     bool
	CategoryId *int
	Note       string
}

type Category struct {
	Id     int
	Name   string
	Income bool
	// Order is the explicit display rank, used to break ties between equal shares.
	Order int
	Color string
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Normalize fills Day from Date using the given location.
func (t Transaction) Normalize(loc *time.Location) Transaction {
	t.Day = period.StartOfDay(t.Date.In(loc))
	return t
}

// BucketDate is the date used to place the transaction into a chart bucket.
func (t Transaction) BucketDate() time.Time {
	if t.Day.IsZero() {
		return period.StartOfDay(t.Date)
	}
	return t.Day
}

func (t Transaction) HasCategory(categoryId int) bool {
	return t.CategoryId != nil && *t.CategoryId == categoryId
}

type Filter string

const (
	FilterAll     Filter = "all"
	FilterExpense Filter = "expense"
	FilterIncome  Filter = "income"
)

func ParseFilter(value string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(value))) {
	case "", FilterExpense:
		return FilterExpense, nil
	case FilterIncome:
		return FilterIncome, nil
	case FilterAll:
		return FilterAll, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, value)
}

func (f Filter) Matches(t Transaction) bool {
	switch f {
	case FilterExpense:
		return !t.Income
	case FilterIncome:
		return t.Income
	}
	return true
}
