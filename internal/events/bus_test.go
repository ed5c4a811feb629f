package events

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBusPublish(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(func(_ context.Context, e Event) {
		got = append(got, e)
	})

	bus.Publish(context.Background(), PluginCreated, "/plugins/functions/functions.php")

	require.Len(t, got, 1)
	require.Equal(t, PluginCreated, got[0].Name)
	require.Equal(t, "/plugins/functions/functions.php", got[0].Path)
	require.False(t, got[0].CreatedAt.IsZero())

	_, err := uuid.Parse(got[0].ID)
	require.NoError(t, err)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(context.Context, Event) { calls++ })

	bus.Publish(context.Background(), StylesCreated, "a")
	unsubscribe()
	bus.Publish(context.Background(), StylesCreated, "b")

	require.Equal(t, 1, calls)
}

func TestBusRecoversHandlerPanic(t *testing.T) {
	bus := NewBus()

	delivered := 0
	bus.Subscribe(func(context.Context, Event) { panic("boom") })
	bus.Subscribe(func(context.Context, Event) { delivered++ })
	bus.Subscribe(func(context.Context, Event) { delivered++ })

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), PluginCreated, "x")
	})
	require.Equal(t, 2, delivered)
}

func TestBusWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	require.NotPanics(t, func() {
		bus.Publish(context.Background(), FileChanged, "x")
	})
}
