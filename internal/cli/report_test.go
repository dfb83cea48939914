package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/klokku/spendpace/internal/event_bus"
	"github.com/klokku/spendpace/internal/utils"
	"github.com/klokku/spendpace/pkg/insights"
	"github.com/klokku/spendpace/pkg/period"
	"github.com/klokku/spendpace/pkg/transaction"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	// given
	ctx := context.Background()
	bus := event_bus.NewEventBus()
	userService := user.NewUserService(user.NewStubUserRepository(), period.DefaultConfig(), bus)
	transactions := transaction.NewService(transaction.NewStubRepo(), bus)
	clock := utils.NewMockClock(time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC))
	insightsService, err := insights.NewService(transactions, clock, bus, 16)
	require.NoError(t, err)

	created, err := userService.CreateUser(ctx, user.User{
		Username: "anna",
		Settings: user.Settings{Timezone: "UTC", WeekFirstDay: time.Monday, MonthFirstDay: 1},
	})
	require.NoError(t, err)
	_, err = transactions.Create(user.WithUser(ctx, created), transaction.Transaction{
		Date:   time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)

	// when
	var out bytes.Buffer
	err = writeReport(ctx, &out, userService, insightsService, insights.NewCsvRenderer(), created.Uid,
		reportOptions{periodType: period.Week, filter: transaction.FilterExpense, date: "2024-01-03"})

	// then
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "Date,Amount", lines[0])
	assert.Equal(t, "2024-01-01,0.00", lines[1])
	assert.Equal(t, "2024-01-03,12.50", lines[3])
	assert.Equal(t, "Total,12.50", lines[8])
	assert.Equal(t, "Max,12.50", lines[10])
}

func TestWriteReport_Errors(t *testing.T) {
	ctx := context.Background()
	bus := event_bus.NewEventBus()
	userService := user.NewUserService(user.NewStubUserRepository(), period.DefaultConfig(), bus)
	insightsService, err := insights.NewService(transaction.NewService(transaction.NewStubRepo(), bus), &utils.SystemClock{}, bus, 16)
	require.NoError(t, err)
	created, err := userService.CreateUser(ctx, user.User{Username: "anna"})
	require.NoError(t, err)

	var out bytes.Buffer
	err = writeReport(ctx, &out, userService, insightsService, insights.NewCsvRenderer(), "missing",
		reportOptions{periodType: period.Month, filter: transaction.FilterAll})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	err = writeReport(ctx, &out, userService, insightsService, insights.NewCsvRenderer(), created.Uid,
		reportOptions{periodType: period.Month, filter: transaction.FilterAll, date: "03/01/2024"})
	assert.ErrorContains(t, err, "invalid date")
	assert.Empty(t, out.String())
}
