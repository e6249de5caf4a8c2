package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Publisher delivers lifecycle notifications. Publish failures never abort
// the operation that produced the event; callers log and continue.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Stamp fills the identity and timestamp fields left zero by the producer.
func Stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}

// NopPublisher discards events. Used when no sink is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
