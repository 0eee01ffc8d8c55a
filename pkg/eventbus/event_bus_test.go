package eventbus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type allocatedEvent struct {
	PositionID string
}

func TestPublishMatchingHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	var got []allocatedEvent
	bus.Subscribe(func(topic string, ev allocatedEvent) {
		require.Equal(t, "appointment.allocated", topic)
		got = append(got, ev)
	})

	bus.Publish("appointment.allocated", allocatedEvent{PositionID: "p1"})
	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].PositionID)
}

func TestPublishSkipsMismatchedHandler(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	called := false
	bus.Subscribe(func(ev allocatedEvent) { called = true })

	bus.Publish("appointment.closed", 42)
	require.False(t, called)
}

func TestUnsubscribeAndClear(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	handler := func(topic string) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Zero(t, bus.SubscribersCount())

	bus.Subscribe(func(topic string) {})
	bus.Clear()
	require.Zero(t, bus.SubscribersCount())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	bus := NewEventPublisher(logrus.New())

	bus.Subscribe(func(topic string) { panic("boom") })
	require.NotPanics(t, func() { bus.Publish("appointment.allocated") })
}
