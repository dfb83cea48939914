package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/klokku/spendpace/internal/event_bus"
	"github.com/klokku/spendpace/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var currentUser = user.User{Id: 1, Uid: "u-1", Settings: user.Settings{Timezone: "America/New_York"}}
var ctx = user.WithUser(context.Background(), currentUser)

var repoStub = NewStubRepo()

func setup(t *testing.T) (*ServiceImpl, *[]event_bus.TransactionChanged, func()) {
	bus := event_bus.NewEventBus()
	published := &[]event_bus.TransactionChanged{}
	event_bus.SubscribeTyped(bus, event_bus.TransactionChangedType, func(e event_bus.EventT[event_bus.TransactionChanged]) error {
		*published = append(*published, e.Data)
		return nil
	})
	return NewService(repoStub, bus), published, func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func TestService_Create(t *testing.T) {
	t.Run("should store the transaction with its local day", func(t *testing.T) {
		service, published, teardown := setup(t)
		defer teardown()

		// given
		date := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC) // still Feb 29 in New York

		// when
		created, err := service.Create(ctx, Transaction{Date: date, Amount: decimal.RequireFromString("12.50")})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, "2024-02-29", created.Day.Format(time.DateOnly))
		stored, err := service.GetBetween(ctx, date.Add(-time.Hour), date.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.True(t, stored[0].Amount.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, []event_bus.TransactionChanged{{UserId: 1, TransactionId: created.Id, Date: date}}, *published)
	})

	t.Run("should reject a category of the other direction", func(t *testing.T) {
		service, published, teardown := setup(t)
		defer teardown()

		salary, err := service.CreateCategory(ctx, Category{Name: "Salary", Income: true})
		require.NoError(t, err)

		_, err = service.Create(ctx, Transaction{
			Date:       time.Now(),
			Amount:     decimal.NewFromInt(5),
			CategoryId: &salary.Id,
		})

		assert.ErrorIs(t, err, ErrCategoryMismatch)
		assert.Empty(t, *published)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()
		missing := 42

		_, err := service.Create(ctx, Transaction{Date: time.Now(), Amount: decimal.NewFromInt(5), CategoryId: &missing})

		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		_, err := service.Create(ctx, Transaction{Date: time.Now(), Amount: decimal.NewFromInt(-5)})

		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		_, err := service.Create(context.Background(), Transaction{Date: time.Now(), Amount: decimal.NewFromInt(5)})

		assert.ErrorIs(t, err, user.ErrNoUser)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestService_Delete(t *testing.T) {
	service, published, teardown := setup(t)
	defer teardown()

	// given
	date := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	created, err := service.Create(ctx, Transaction{Date: date, Amount: decimal.NewFromInt(3)})
	require.NoError(t, err)

	// when
	err = service.Delete(ctx, created.Id)

	// then
	require.NoError(t, err)
	assert.ErrorIs(t, service.Delete(ctx, created.Id), ErrTransactionNotFound)
	require.Len(t, *published, 2)
	assert.Equal(t, event_bus.TransactionChanged{UserId: 1, TransactionId: created.Id, Date: date, Deleted: true}, (*published)[1])
}

func TestService_DeleteOtherUsersTransaction(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	created, err := service.Create(ctx, Transaction{Date: time.Now(), Amount: decimal.NewFromInt(3)})
	require.NoError(t, err)
	otherCtx := user.WithUser(context.Background(), user.User{Id: 2})

	assert.ErrorIs(t, service.Delete(otherCtx, created.Id), ErrTransactionNotFound)
}

func TestService_OldestDate(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	oldest, err := service.OldestDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, oldest)

	first := time.Date(2023, 7, 1, 9, 0, 0, 0, time.UTC)
	for _, date := range []time.Time{first.AddDate(0, 2, 0), first, first.AddDate(1, 0, 0)} {
		_, err := service.Create(ctx, Transaction{Date: date, Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	oldest, err = service.OldestDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, oldest)
	assert.Equal(t, first, *oldest)
}

func TestService_Categories(t *testing.T) {
	service, _, teardown := setup(t)
	defer teardown()

	_, err := service.CreateCategory(ctx, Category{Name: "Rent", Order: 2})
	require.NoError(t, err)
	_, err = service.CreateCategory(ctx, Category{Name: " Food ", Order: 1})
	require.NoError(t, err)
	_, err = service.CreateCategory(ctx, Category{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	categories, err := service.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Food", categories[0].Name)
	assert.Equal(t, "Rent", categories[1].Name)
}
