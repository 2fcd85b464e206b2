package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aurora-messenger/backend/pkg/errors"
	"aurora-messenger/backend/pkg/jwt"
	"aurora-messenger/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func protectedRouter(jwtService *jwt.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})

	r := gin.New()
	r.Use(errors.ErrorHandler())
	r.GET("/protected", JWTAuthMiddleware(jwtService, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
	})
	return r
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	svc := jwt.NewService("test-secret", time.Hour)
	token, _ := svc.GenerateToken("alice")

	r := protectedRouter(svc)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	r := protectedRouter(jwt.NewService("test-secret", time.Hour))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareBadToken(t *testing.T) {
	r := protectedRouter(jwt.NewService("test-secret", time.Hour))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddlewareWrongSecret(t *testing.T) {
	other := jwt.NewService("other-secret", time.Hour)
	token, _ := other.GenerateToken("alice")

	r := protectedRouter(jwt.NewService("test-secret", time.Hour))

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
