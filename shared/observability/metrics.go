package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments for the session registry and relay
// engine. When no meter provider has been installed the instruments are
// no-ops, so components can record unconditionally.
type Metrics struct {
	SessionsActive      metric.Int64UpDownCounter
	EventsRelayed       metric.Int64Counter
	EventsDropped       metric.Int64Counter
	EventsRejected      metric.Int64Counter
	PersistenceFailures metric.Int64Counter
}

// NewMetrics creates the instrument set from the global meter provider.
func NewMetrics() *Metrics {
	meter := otel.Meter("aurora-messenger/backend")

	sessions, _ := meter.Int64UpDownCounter("aurora_sessions_active",
		metric.WithDescription("Number of usernames with a live connection"))
	relayed, _ := meter.Int64Counter("aurora_events_relayed_total",
		metric.WithDescription("Events delivered to a recipient connection"))
	dropped, _ := meter.Int64Counter("aurora_events_dropped_total",
		metric.WithDescription("Events dropped because the recipient was offline or slow"))
	rejected, _ := meter.Int64Counter("aurora_events_rejected_total",
		metric.WithDescription("Inbound events rejected for missing required fields"))
	persistence, _ := meter.Int64Counter("aurora_persistence_failures_total",
		metric.WithDescription("Message log writes that failed"))

	return &Metrics{
		SessionsActive:      sessions,
		EventsRelayed:       relayed,
		EventsDropped:       dropped,
		EventsRejected:      rejected,
		PersistenceFailures: persistence,
	}
}

// WithEventType tags a relayed-event data point with its type.
func WithEventType(eventType string) metric.AddOption {
	return metric.WithAttributes(attribute.String("event_type", eventType))
}

// WithDropReason tags a dropped-event data point with why it was dropped.
func WithDropReason(reason string) metric.AddOption {
	return metric.WithAttributes(attribute.String("reason", reason))
}
