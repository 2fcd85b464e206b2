package service

import (
	"context"

	"aurora-messenger/backend/pkg/resilience"
)

// MessageStoreAdapter adapts the MessageService to the ws.MessageStore
// interface and guards writes with a circuit breaker, so a down database
// sheds load quickly instead of stalling every relay goroutine on
// timeouts.
type MessageStoreAdapter struct {
	service *MessageService
	breaker *resilience.CircuitBreaker
}

// NewMessageStoreAdapter creates a new adapter for the MessageService.
func NewMessageStoreAdapter(service *MessageService, breaker *resilience.CircuitBreaker) *MessageStoreAdapter {
	return &MessageStoreAdapter{
		service: service,
		breaker: breaker,
	}
}

// Append implements the ws.MessageStore interface
func (a *MessageStoreAdapter) Append(ctx context.Context, sender, receiver, text string) error {
	return a.breaker.Execute(func() error {
		return a.service.Append(ctx, sender, receiver, text)
	})
}
