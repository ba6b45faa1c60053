// Package pubsub provides a small generic publish/subscribe broker used to fan
// registry, transport and log events out to HTTP streams.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	LoadedEvent      EventType = "loaded"
	InvalidatedEvent EventType = "invalidated"
	ErrorEvent       EventType = "error"
	LogEvent         EventType = "log"
)

// Event is a published value with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
