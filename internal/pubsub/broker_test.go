package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed before event arrived")
		return event
	case <-time.After(200 * time.Millisecond):
		require.FailNow(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_SubscribeReceivesPublishedEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	broker.Publish(LoadedEvent, "components")

	event := receive(t, ch)
	require.Equal(t, "components", event.Payload)
	require.Equal(t, LoadedEvent, event.Type)
	require.False(t, event.Timestamp.IsZero())
}

func TestBroker_FansOutToEverySubscriber(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	subs := []<-chan Event[int]{
		broker.Subscribe(context.Background()),
		broker.Subscribe(context.Background()),
		broker.Subscribe(context.Background()),
	}
	require.Equal(t, 3, broker.SubscriberCount())

	broker.Publish(InvalidatedEvent, 7)

	for _, ch := range subs {
		event := receive(t, ch)
		require.Equal(t, 7, event.Payload)
		require.Equal(t, InvalidatedEvent, event.Type)
	}
}

func TestBroker_CancelledSubscriberIsRemoved(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed")
}

func TestBroker_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	broker.Publish(ErrorEvent, 1)

	done := make(chan struct{})
	go func() {
		broker.Publish(ErrorEvent, 2)
		broker.Publish(ErrorEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		require.FailNow(t, "Publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
}

func TestBroker_CloseIsIdempotentAndClosesSubscribers(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Equal(t, 0, broker.SubscriberCount())

	late := broker.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok, "subscribe after close returns a closed channel")

	require.NotPanics(t, func() { broker.Publish(LogEvent, "ignored") })
}

func TestBroker_NilPublishIsNoop(t *testing.T) {
	var broker *Broker[string]
	require.NotPanics(t, func() { broker.Publish(LogEvent, "x") })
}
