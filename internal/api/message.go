package api

import (
	"context"
	"net/http"
	"strconv"

	"aurora-messenger/backend/internal/models"
	"aurora-messenger/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 100

// MessageHistory is the slice of the message service the handler needs.
type MessageHistory interface {
	Conversation(ctx context.Context, userA, userB string, limit int) ([]models.Message, error)
}

// MessageHandler serves conversation history for authenticated users.
type MessageHandler struct {
	messages MessageHistory
	logger   *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages MessageHistory, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

// Conversation returns the message history between the authenticated user
// and the peer named in the path, oldest first.
func (h *MessageHandler) Conversation(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	peer := c.Param("peer")
	if peer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "peer is required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	messages, err := h.messages.Conversation(c.Request.Context(), username, peer, limit)
	if err != nil {
		h.logger.Error("Error loading conversation", "error", err.Error(), "username", username, "peer", peer)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
