package jwt

import (
	"time"
)

// Service is a wrapper for token operations
type Service struct {
	secretKey string
	expiry    time.Duration
}

// NewService creates a new JWT service
func NewService(secretKey string, expiry time.Duration) *Service {
	if secretKey == "" {
		secretKey = getSecretKey()
	}

	if expiry == 0 {
		expiry = 24 * time.Hour // Default to 24 hours
	}

	return &Service{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// GenerateToken generates a token for a user
func (s *Service) GenerateToken(username string) (string, error) {
	return GenerateToken(username, s.secretKey, s.expiry)
}

// ValidateToken validates a token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(tokenString, s.secretKey)
}
