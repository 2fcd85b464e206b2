package ws

import (
	"net/http"
	"time"

	"aurora-messenger/backend/pkg/logger"
	"aurora-messenger/backend/shared/observability"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// ServeWs upgrades the request at /ws/:username and wires the new
// connection into the registry and relay.
func ServeWs(registry *Registry, relay *Relay, metrics *observability.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("WebSocket upgrade failed", "username", username, "error", err.Error())
			return
		}

		client := NewClient(conn, username, registry, relay, metrics, log)
		registry.Register(username, client)

		log.Info("WebSocket connection established",
			"username", username,
			"session", client.SessionID.String(),
		)

		go client.WritePump()
		go client.ReadPump()
	}
}
