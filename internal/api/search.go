package api

import (
	"net/http"

	"aurora-messenger/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserSearcher is the slice of the user service the search handler needs.
type UserSearcher interface {
	Search(query string) ([]string, error)
}

// SearchHandler handles username search requests
type SearchHandler struct {
	users  UserSearcher
	logger *logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(users UserSearcher, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{users: users, logger: logger}
}

// Search returns usernames containing the query substring. The response
// is a bare JSON array, matching the original wire shape.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Param("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	usernames, err := h.users.Search(query)
	if err != nil {
		h.logger.Error("Error searching users", "error", err.Error(), "query", query)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search users"})
		return
	}

	if usernames == nil {
		usernames = []string{}
	}

	c.JSON(http.StatusOK, usernames)
}
