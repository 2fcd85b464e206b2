package resilience

import (
	"errors"
	"io"
	"testing"
	"time"

	"aurora-messenger/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newTestBreaker(retryTimeout time.Duration) *CircuitBreaker {
	cfg := Config{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		RetryTimeout:     retryTimeout,
	}
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	return NewCircuitBreaker(cfg, log)
}

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestBreakerStartsClosed(t *testing.T) {
	cb := newTestBreaker(time.Minute)
	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(succeed))
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(fail), errBoom)
	}

	assert.Equal(t, StateOpen, cb.GetState())
	assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitOpen)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	cb.Execute(fail)
	cb.Execute(fail)
	cb.Execute(succeed)
	cb.Execute(fail)
	cb.Execute(fail)

	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerHalfOpenThenClosed(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.Execute(fail)
	}
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateHalfOpen, cb.GetState())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.Execute(fail)
	}
	time.Sleep(20 * time.Millisecond)

	require.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.GetState())
}
