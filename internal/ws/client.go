package ws

import (
	"context"
	"errors"
	"time"

	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/shared/observability"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64KB

	// Outbound queue per connection, drained by the write pump
	sendBufferSize = 256
)

// Client is one live connection. Exactly one read pump and one write pump
// run per client; the read pump feeds the relay, the write pump drains the
// Send channel.
type Client struct {
	Username  string
	SessionID uuid.UUID
	Conn      *websocket.Conn
	Send      chan []byte

	registry *Registry
	relay    *Relay
	metrics  *observability.Metrics
	logger   *logger.Logger
}

// NewClient wraps an accepted websocket connection. The caller is
// responsible for registering the client and starting both pumps.
func NewClient(conn *websocket.Conn, username string, registry *Registry, relay *Relay, metrics *observability.Metrics, log *logger.Logger) *Client {
	return &Client{
		Username:  username,
		SessionID: uuid.New(),
		Conn:      conn,
		Send:      make(chan []byte, sendBufferSize),
		registry:  registry,
		relay:     relay,
		metrics:   metrics,
		logger:    log,
	}
}

// ReadPump reads inbound frames and hands each event to the relay. Events
// from the same sender are processed in order because this is the only
// reader on the connection. On exit the client unregisters itself; the
// identity check in the registry means a displaced session cannot evict
// its replacement here.
func (c *Client) ReadPump() {
	defer func() {
		if !c.registry.Unregister(c.Username, c) {
			// A newer session owns the username now; close our own send
			// channel so the write pump stops. Nothing can reach this
			// channel through the registry anymore.
			close(c.Send)
		}
		c.Conn.Close()
		c.logger.Info("Connection closed", "username", c.Username, "session", c.SessionID.String())
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Read error", "username", c.Username, "error", err.Error())
			}
			break
		}

		event, err := ParseEvent(frame)
		if err != nil {
			if errors.Is(err, ErrInvalidFrame) {
				// Not JSON at all: protocol violation, close rather than
				// silently hang.
				c.logger.Warn("Closing connection on invalid frame",
					"username", c.Username,
					"error", err.Error(),
				)
				return
			}
			// Missing required field: reject the event, keep the
			// connection.
			c.metrics.EventsRejected.Add(context.Background(), 1)
			c.logger.Warn("Rejected malformed event",
				"username", c.Username,
				"error", err.Error(),
			)
			continue
		}

		if err := c.relay.HandleEvent(context.Background(), c.Username, event); err != nil {
			// Persistence failures are contained to this connection's log
			// line; the event was still attempted for delivery.
			c.logger.LogError(err, "Relay error", "username", c.Username, "type", event.Type)
		}
	}
}

// WritePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The registry closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			c.registry.Touch(c.Username, c)
		}
	}
}
