package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"aurora-messenger/backend/shared/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	rows    [][3]string
	failing bool
}

func (s *fakeStore) Append(_ context.Context, sender, receiver, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("db down")
	}
	s.rows = append(s.rows, [3]string{sender, receiver, text})
	return nil
}

func newTestRelay(store *fakeStore) (*Relay, *Registry) {
	registry := newTestRegistry()
	relay := NewRelay(registry, store, observability.NewMetrics(), testLogger())
	return relay, registry
}

func mustParse(t *testing.T, frame string) *Event {
	t.Helper()
	e, err := ParseEvent([]byte(frame))
	require.NoError(t, err)
	return e
}

func TestRelayChatPersistsAndDelivers(t *testing.T) {
	store := &fakeStore{}
	relay, registry := newTestRelay(store)

	bob := newTestClient("bob", 4)
	registry.Register("bob", bob)

	e := mustParse(t, `{"type":"chat","to":"bob","text":"hello"}`)
	require.NoError(t, relay.HandleEvent(context.Background(), "alice", e))

	require.Len(t, store.rows, 1)
	assert.Equal(t, [3]string{"alice", "bob", "hello"}, store.rows[0])

	frame := <-bob.Send
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, "alice", out["from"])
	assert.Equal(t, "hello", out["text"])
}

func TestRelayChatOfflineStillPersisted(t *testing.T) {
	store := &fakeStore{}
	relay, _ := newTestRelay(store)

	e := mustParse(t, `{"type":"chat","to":"nobody","text":"hello?"}`)

	// Offline recipient: the drop is silent but the message survives.
	require.NoError(t, relay.HandleEvent(context.Background(), "alice", e))
	require.Len(t, store.rows, 1)
}

func TestRelayPersistenceFailureStillDelivers(t *testing.T) {
	store := &fakeStore{failing: true}
	relay, registry := newTestRelay(store)

	bob := newTestClient("bob", 4)
	registry.Register("bob", bob)

	e := mustParse(t, `{"type":"chat","to":"bob","text":"hello"}`)
	err := relay.HandleEvent(context.Background(), "alice", e)
	assert.Error(t, err)

	// Delivery was still attempted despite the failed write.
	select {
	case <-bob.Send:
	default:
		t.Fatal("expected event to be delivered despite persistence failure")
	}
}

func TestRelayTypingNotPersisted(t *testing.T) {
	store := &fakeStore{}
	relay, registry := newTestRelay(store)

	bob := newTestClient("bob", 4)
	registry.Register("bob", bob)

	e := mustParse(t, `{"type":"typing","to":"bob"}`)
	require.NoError(t, relay.HandleEvent(context.Background(), "alice", e))

	assert.Empty(t, store.rows)
	assert.Len(t, bob.Send, 1)
}

func TestRelayUnknownTypeForwarded(t *testing.T) {
	store := &fakeStore{}
	relay, registry := newTestRelay(store)

	bob := newTestClient("bob", 4)
	registry.Register("bob", bob)

	e := mustParse(t, `{"type":"read_receipt","to":"bob","message_id":42}`)
	require.NoError(t, relay.HandleEvent(context.Background(), "alice", e))

	assert.Empty(t, store.rows)

	frame := <-bob.Send
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, "read_receipt", out["type"])
	assert.Equal(t, float64(42), out["message_id"])
	assert.Equal(t, "alice", out["from"])
}

func TestRelayQueueFullDropsSilently(t *testing.T) {
	store := &fakeStore{}
	relay, registry := newTestRelay(store)

	bob := newTestClient("bob", 1)
	registry.Register("bob", bob)

	first := mustParse(t, `{"type":"typing","to":"bob"}`)
	second := mustParse(t, `{"type":"typing","to":"bob"}`)

	require.NoError(t, relay.HandleEvent(context.Background(), "alice", first))
	require.NoError(t, relay.HandleEvent(context.Background(), "alice", second))

	// Only the first fit in the queue; the sender never sees an error.
	assert.Len(t, bob.Send, 1)
}
