package models

import (
	"time"
)

// DefaultBio is assigned when a registration omits the bio field.
const DefaultBio = "Minimalist. Aurora User."

// User represents a registered user. The credential is stored verbatim
// and compared directly on login; it is never serialized to JSON.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	Password  string    `json:"-"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest is the request structure for creating a new user
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Bio      string `json:"bio,omitempty"`
}

// LoginRequest is the request structure for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by the register and login endpoints. Username,
// bio and token are only populated on successful login.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Token    string `json:"token,omitempty"`
}
