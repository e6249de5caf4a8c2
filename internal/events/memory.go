package events

import (
	"context"
	"sync"
)

// MemorySink records events in order and delivers them synchronously to any
// registered subscribers. Tests use it both to assert on emitted
// notifications and to drive re-entrant callbacks into protected operations.
type MemorySink struct {
	mu          sync.Mutex
	events      []Event
	subscribers []func(context.Context, Event)
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Subscribe registers a synchronous callback invoked on every publish.
func (s *MemorySink) Subscribe(fn func(context.Context, Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *MemorySink) Publish(ctx context.Context, event Event) error {
	event = Stamp(event)

	s.mu.Lock()
	s.events = append(s.events, event)
	subs := make([]func(context.Context, Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ctx, event)
	}
	return nil
}

// Events returns a snapshot of everything published so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// OfType filters the snapshot by event type.
func (s *MemorySink) OfType(t Type) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
