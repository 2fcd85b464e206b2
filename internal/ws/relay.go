package ws

import (
	"context"
	"fmt"

	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/shared/observability"
)

// MessageStore appends accepted chat events to the message log. The store
// is expected to be concurrency-safe on its own; the relay never
// serializes access to it.
type MessageStore interface {
	Append(ctx context.Context, sender, receiver, text string) error
}

// Relay routes inbound events from connected clients to their addressed
// recipients. Chat events are written to the message log first; delivery
// is best-effort and an offline recipient drops the event silently.
type Relay struct {
	registry *Registry
	store    MessageStore
	metrics  *observability.Metrics
	logger   *logger.Logger
}

// NewRelay creates a relay engine backed by the given registry and store.
func NewRelay(registry *Registry, store MessageStore, metrics *observability.Metrics, log *logger.Logger) *Relay {
	return &Relay{
		registry: registry,
		store:    store,
		metrics:  metrics,
		logger:   log,
	}
}

// HandleEvent processes one validated event from fromUser. The returned
// error reports a persistence failure to the caller; delivery is still
// attempted regardless, so a non-nil error does not mean the event went
// nowhere.
func (r *Relay) HandleEvent(ctx context.Context, fromUser string, e *Event) error {
	var persistErr error

	if e.Type == EventChat {
		// The write must survive the sender disconnecting mid-flight;
		// message durability does not depend on the sender staying
		// connected.
		storeCtx := context.WithoutCancel(ctx)
		if err := r.store.Append(storeCtx, fromUser, e.To, e.Text); err != nil {
			r.metrics.PersistenceFailures.Add(ctx, 1)
			persistErr = fmt.Errorf("append chat message: %w", err)
		}
	}

	frame, err := e.WithSender(fromUser)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	switch r.registry.Deliver(e.To, frame) {
	case Delivered:
		r.metrics.EventsRelayed.Add(ctx, 1, observability.WithEventType(e.Type))
	case RecipientOffline:
		// Dropped silently: no error to the sender and no queuing.
		r.metrics.EventsDropped.Add(ctx, 1, observability.WithDropReason("offline"))
	case QueueFull:
		r.metrics.EventsDropped.Add(ctx, 1, observability.WithDropReason("queue_full"))
		r.logger.Warn("Dropping event, recipient send queue full",
			"from", fromUser,
			"to", e.To,
			"type", e.Type,
		)
	}

	return persistErr
}
