package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishInSubscriptionOrder(t *testing.T) {
	// given
	bus := NewEventBus()
	var calls []string
	SubscribeTyped(bus, TransactionChangedType, func(e EventT[TransactionChanged]) error {
		calls = append(calls, "first")
		assert.Equal(t, 7, e.Data.UserId)
		return nil
	})
	bus.Subscribe(TransactionChangedType, func(e Event) error {
		calls = append(calls, "second")
		return nil
	})
	bus.Subscribe(UserSettingsUpdatedType, func(e Event) error {
		calls = append(calls, "other type")
		return nil
	})

	// when
	err := bus.Publish(NewEvent(context.Background(), TransactionChangedType, TransactionChanged{UserId: 7}))

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe(UserSettingsUpdatedType, func(e Event) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), UserSettingsUpdatedType, UserSettingsUpdated{UserId: 1})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), UserSettingsUpdatedType, UserSettingsUpdated{UserId: 1})))

	assert.Equal(t, 1, count)
}

func TestEventBus_CollectsErrorsAndPanics(t *testing.T) {
	bus := NewEventBus()
	failure := errors.New("boom")
	reached := false
	bus.Subscribe(TransactionChangedType, func(e Event) error { return failure })
	bus.Subscribe(TransactionChangedType, func(e Event) error { panic("handler bug") })
	bus.Subscribe(TransactionChangedType, func(e Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), TransactionChangedType, TransactionChanged{}))

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "handler panic")
	assert.True(t, reached)
}

func TestEventBus_TypedHandlerSkipsOtherPayloads(t *testing.T) {
	bus := NewEventBus()
	called := false
	SubscribeTyped(bus, TransactionChangedType, func(e EventT[TransactionChanged]) error {
		called = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), TransactionChangedType, "not a payload"))

	require.NoError(t, err)
	assert.False(t, called)
}

func TestEventBus_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(TransactionChangedType, func(e Event) error {
		t.Fatal("handler must not run")
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, TransactionChangedType, TransactionChanged{}))

	assert.ErrorIs(t, err, context.Canceled)
}
