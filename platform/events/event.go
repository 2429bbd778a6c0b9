// Package events carries the in-process event bus the lead pipeline
// publishes on. Domain event types live with the modules that emit them
// (internal/events); this package only defines the contract.
package events

import (
	"context"
	"time"
)

// Event is anything the bus can carry. EventName keys handler
// subscriptions, so it must be stable across releases.
type Event interface {
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// Handler processes events of a single subscribed type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus decouples the submission pipeline from its listeners: the pipeline
// publishes, the notification side subscribes, and neither imports the other.
type Bus interface {
	// Publish hands the event to every subscriber of its name.
	// Delivery is asynchronous; a slow listener never delays a submission.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers inline and returns the first handler error.
	// Used in tests and wherever ordering matters.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an Event.EventName value.
	Subscribe(eventName string, handler Handler)
}

// BaseEvent supplies the timestamp half of the Event contract; embed it
// and implement EventName.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a new event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}
