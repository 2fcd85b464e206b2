package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known event types. Clients may send other types; the relay forwards
// them to the target untouched.
const (
	EventChat   = "chat"
	EventTyping = "typing"
)

var (
	// ErrInvalidFrame means the frame was not a JSON object at all. This is
	// a protocol violation and the connection should be closed.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrMalformedEvent means a required field was missing. The event is
	// rejected but the connection survives.
	ErrMalformedEvent = errors.New("malformed event")
)

// Event is one inbound frame from a connected client. The original payload
// is kept verbatim so event types the server does not know about are
// forwarded byte-for-byte.
type Event struct {
	Type string
	To   string
	Text string

	payload map[string]json.RawMessage
}

// ParseEvent decodes and validates a single inbound frame. Every event
// needs a type discriminator and a target username; chat events also need
// text since they are persisted.
func ParseEvent(frame []byte) (*Event, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(frame, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	e := &Event{payload: payload}
	if raw, ok := payload["type"]; ok {
		_ = json.Unmarshal(raw, &e.Type)
	}
	if raw, ok := payload["to"]; ok {
		_ = json.Unmarshal(raw, &e.To)
	}
	if raw, ok := payload["text"]; ok {
		_ = json.Unmarshal(raw, &e.Text)
	}

	if e.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}
	if e.To == "" {
		return nil, fmt.Errorf("%w: missing to", ErrMalformedEvent)
	}
	if e.Type == EventChat && e.Text == "" {
		return nil, fmt.Errorf("%w: chat event missing text", ErrMalformedEvent)
	}

	return e, nil
}

// WithSender marshals the full payload with the sender's identity injected,
// so the recipient knows who the event came from. The server is
// authoritative for the from field; anything the client put there is
// overwritten.
func (e *Event) WithSender(username string) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.payload)+1)
	for k, v := range e.payload {
		out[k] = v
	}

	from, err := json.Marshal(username)
	if err != nil {
		return nil, err
	}
	out["from"] = from

	return json.Marshal(out)
}
