package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventChat(t *testing.T) {
	e, err := ParseEvent([]byte(`{"type":"chat","to":"bob","text":"hello"}`))
	require.NoError(t, err)

	assert.Equal(t, EventChat, e.Type)
	assert.Equal(t, "bob", e.To)
	assert.Equal(t, "hello", e.Text)
}

func TestParseEventTypingWithoutText(t *testing.T) {
	// Only chat events require text.
	e, err := ParseEvent([]byte(`{"type":"typing","to":"bob"}`))
	require.NoError(t, err)

	assert.Equal(t, EventTyping, e.Type)
	assert.Empty(t, e.Text)
}

func TestParseEventUnknownType(t *testing.T) {
	e, err := ParseEvent([]byte(`{"type":"read_receipt","to":"bob","message_id":42}`))
	require.NoError(t, err)

	assert.Equal(t, "read_receipt", e.Type)
}

func TestParseEventNotJSON(t *testing.T) {
	_, err := ParseEvent([]byte("not json at all"))
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestParseEventMissingFields(t *testing.T) {
	cases := map[string]string{
		"missing type":      `{"to":"bob","text":"hi"}`,
		"missing to":        `{"type":"chat","text":"hi"}`,
		"chat missing text": `{"type":"chat","to":"bob"}`,
	}

	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvent([]byte(frame))
			assert.ErrorIs(t, err, ErrMalformedEvent)
		})
	}
}

func TestWithSenderInjectsFrom(t *testing.T) {
	e, err := ParseEvent([]byte(`{"type":"chat","to":"bob","text":"hello"}`))
	require.NoError(t, err)

	frame, err := e.WithSender("alice")
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, "alice", out["from"])
	assert.Equal(t, "hello", out["text"])
}

func TestWithSenderOverwritesClientFrom(t *testing.T) {
	// The server is authoritative for the sender identity.
	e, err := ParseEvent([]byte(`{"type":"chat","to":"bob","text":"hi","from":"mallory"}`))
	require.NoError(t, err)

	frame, err := e.WithSender("alice")
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, "alice", out["from"])
}

func TestWithSenderPreservesUnknownFields(t *testing.T) {
	e, err := ParseEvent([]byte(`{"type":"reaction","to":"bob","emoji":"🔥","message_id":7}`))
	require.NoError(t, err)

	frame, err := e.WithSender("alice")
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, "🔥", out["emoji"])
	assert.Equal(t, float64(7), out["message_id"])
}
