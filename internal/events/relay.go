package events

import (
	"context"
	"log/slog"

	dErrors "hangar/pkg/domain-errors"
)

// Relay decouples event production from delivery: services publish into a
// bounded channel and a background worker forwards to the real sink. A full
// channel drops the event with a log line rather than blocking a settlement.
type Relay struct {
	sink   Publisher
	inbox  chan Event
	logger *slog.Logger
}

func NewRelay(sink Publisher, buffer int, logger *slog.Logger) *Relay {
	return &Relay{
		sink:   sink,
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

func (r *Relay) Publish(ctx context.Context, event Event) error {
	event = Stamp(event)
	select {
	case r.inbox <- event:
		return nil
	default:
		r.logger.WarnContext(ctx, "event relay full, dropping event",
			"event_type", string(event.Type),
			"asset_id", event.AssetID.String(),
		)
		return dErrors.New(dErrors.CodeInternal, "event relay full")
	}
}

// Run forwards queued events until ctx is cancelled. Delivery failures are
// logged and the worker keeps going.
func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-r.inbox:
			if err := r.sink.Publish(ctx, event); err != nil {
				r.logger.ErrorContext(ctx, "event delivery failed",
					"event_type", string(event.Type),
					"asset_id", event.AssetID.String(),
					"error", err,
				)
			}
		}
	}
}
