package api

import (
	"net/http"

	"aurora-messenger/backend/internal/models"
	"aurora-messenger/backend/internal/service"
	"aurora-messenger/backend/pkg/jwt"
	"aurora-messenger/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserService is the slice of the user service the auth handler needs.
type UserService interface {
	Register(req *models.RegisterRequest) (*models.User, error)
	Login(req *models.LoginRequest) (*models.User, error)
}

// AuthHandler handles registration and login requests
type AuthHandler struct {
	users      UserService
	jwtService *jwt.Service
	logger     *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService, jwtService *jwt.Service, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register handles user registration. Duplicate usernames are the only
// defined failure; the response body mirrors the original wire shape.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for register", "error", err.Error())
		c.JSON(http.StatusBadRequest, models.AuthResponse{Success: false, Message: "Invalid request format"})
		return
	}

	_, err := h.users.Register(&req)
	if err != nil {
		switch err {
		case service.ErrUserAlreadyExists:
			c.JSON(http.StatusConflict, models.AuthResponse{Success: false, Message: "User exists"})
		default:
			h.logger.Error("Error creating user", "error", err.Error())
			c.JSON(http.StatusInternalServerError, models.AuthResponse{Success: false, Message: "Failed to create user account"})
		}
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{Success: true})
}

// Login handles user authentication. A wrong password and an unknown
// username produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for login", "error", err.Error())
		c.JSON(http.StatusBadRequest, models.AuthResponse{Success: false, Message: "Invalid request format"})
		return
	}

	user, err := h.users.Login(&req)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, models.AuthResponse{Success: false})
		default:
			h.logger.Error("Error during login", "error", err.Error())
			c.JSON(http.StatusInternalServerError, models.AuthResponse{Success: false})
		}
		return
	}

	token, err := h.jwtService.GenerateToken(user.Username)
	if err != nil {
		h.logger.Error("Error generating token", "error", err.Error())
		c.JSON(http.StatusInternalServerError, models.AuthResponse{Success: false})
		return
	}

	h.logger.Info("User logged in", "username", user.Username)

	c.JSON(http.StatusOK, models.AuthResponse{
		Success:  true,
		Username: user.Username,
		Bio:      user.Bio,
		Token:    token,
	})
}
