package period

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_StepsWithinBounds(t *testing.T) {
	// given
	calculator := NewCalculator(Config{FirstWeekday: time.Monday, FirstDayOfMonth: 1})
	now := time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC)
	oldest := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	navigator := NavigatorFor(calculator, Week, now, &oldest)

	// then
	require.Equal(t, date(2024, 1, 15), navigator.Current())
	assert.Equal(t, date(2024, 1, 1), navigator.EarliestPeriodStart())
	assert.False(t, navigator.CanStepForward())
	assert.True(t, navigator.CanStepBackward())

	// when stepping past the current period
	assert.False(t, navigator.StepForward())
	assert.Equal(t, date(2024, 1, 15), navigator.Current())

	// when walking back to the earliest period
	assert.True(t, navigator.StepBackward())
	assert.Equal(t, date(2024, 1, 8), navigator.Current())
	assert.True(t, navigator.StepBackward())
	assert.Equal(t, date(2024, 1, 1), navigator.Current())
	assert.False(t, navigator.CanStepBackward())
	assert.False(t, navigator.StepBackward())
	assert.Equal(t, date(2024, 1, 1), navigator.Current())

	// when stepping forward again
	assert.True(t, navigator.StepForward())
	assert.Equal(t, date(2024, 1, 8), navigator.Current())
	assert.Equal(t, date(2024, 1, 15), navigator.Window().End)
}

func TestNavigator_NoTransactions(t *testing.T) {
	calculator := NewCalculator(DefaultConfig())
	navigator := NavigatorFor(calculator, Month, date(2024, 5, 20), nil)

	assert.Equal(t, date(2024, 5, 1), navigator.Current())
	assert.False(t, navigator.CanStepForward())
	assert.False(t, navigator.CanStepBackward())
	_, hasNext := navigator.Next()
	_, hasPrevious := navigator.Previous()
	assert.False(t, hasNext)
	assert.False(t, hasPrevious)
}

func TestNavigator_CustomMonth(t *testing.T) {
	// given
	calculator := NewCalculator(Config{FirstWeekday: time.Monday, FirstDayOfMonth: 15})
	oldest := date(2023, 12, 20)
	navigator := NavigatorFor(calculator, Month, date(2024, 3, 10), &oldest)

	// when
	previous, hasPrevious := navigator.Previous()
	navigator.StepBackward()
	navigator.StepBackward()

	// then
	assert.True(t, hasPrevious)
	assert.Equal(t, date(2024, 1, 15), previous)
	assert.Equal(t, date(2023, 12, 15), navigator.Current())
	assert.False(t, navigator.CanStepBackward())
	next, hasNext := navigator.Next()
	assert.True(t, hasNext)
	assert.Equal(t, date(2024, 1, 15), next)
}

func TestNavigator_MoveToIsClamped(t *testing.T) {
	calculator := NewCalculator(DefaultConfig())
	oldest := date(2021, 3, 3)
	navigator := NavigatorFor(calculator, Year, date(2024, 7, 1), &oldest)

	navigator.MoveTo(date(2030, 1, 1))
	assert.Equal(t, date(2024, 1, 1), navigator.Current())

	navigator.MoveTo(date(1999, 1, 1))
	assert.Equal(t, date(2021, 1, 1), navigator.Current())

	navigator.MoveTo(date(2022, 6, 6))
	assert.Equal(t, date(2022, 1, 1), navigator.Current())
}

func TestNavigator_EarliestAfterCurrentCollapses(t *testing.T) {
	calculator := NewCalculator(DefaultConfig())
	oldest := date(2025, 1, 1)
	navigator := NavigatorFor(calculator, Week, date(2024, 1, 3), &oldest)

	assert.Equal(t, navigator.CurrentPeriodStart(), navigator.EarliestPeriodStart())
	assert.False(t, navigator.CanStepBackward())
}

func TestNavigator_RandomWalkNeverLeavesBounds(t *testing.T) {
	calculator := NewCalculator(Config{FirstWeekday: time.Sunday, FirstDayOfMonth: 7})
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, location)
	oldest := time.Date(2023, 2, 14, 9, 0, 0, 0, location)
	random := rand.New(rand.NewSource(42))

	for _, periodType := range []Type{Day, Week, Month, Year} {
		navigator := NavigatorFor(calculator, periodType, now, &oldest)
		for i := 0; i < 2000; i++ {
			if random.Intn(2) == 0 {
				navigator.StepForward()
			} else {
				navigator.StepBackward()
			}
			current := navigator.Current()
			require.False(t, current.After(navigator.CurrentPeriodStart()), "%s: %v after current period", periodType, current)
			require.False(t, current.Before(navigator.EarliestPeriodStart()), "%s: %v before earliest period", periodType, current)
			require.Equal(t, current.Equal(navigator.CurrentPeriodStart()), !navigator.CanStepForward())
			require.Equal(t, current.Equal(navigator.EarliestPeriodStart()), !navigator.CanStepBackward())
			require.Equal(t, calculator.Start(current, periodType), current)
		}
	}
}
