package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"aurora-messenger/backend/internal/models"
	"aurora-messenger/backend/internal/service"
	"aurora-messenger/backend/pkg/jwt"
	"aurora-messenger/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	registerErr error
	loginErr    error
	user        *models.User
}

func (s *stubUsers) Register(req *models.RegisterRequest) (*models.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &models.User{Username: req.Username, Bio: models.DefaultBio}, nil
}

func (s *stubUsers) Login(req *models.LoginRequest) (*models.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.user, nil
}

func testAPILogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func authRouter(users UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(users, jwt.NewService("test-secret", 0), testAPILogger())
	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterSuccess(t *testing.T) {
	r := authRouter(&stubUsers{})

	w := postJSON(r, "/register", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := authRouter(&stubUsers{registerErr: service.ErrUserAlreadyExists})

	w := postJSON(r, "/register", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "User exists", resp.Message)
}

func TestRegisterInvalidBody(t *testing.T) {
	r := authRouter(&stubUsers{})

	w := postJSON(r, "/register", `{"username":"alice"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSuccess(t *testing.T) {
	r := authRouter(&stubUsers{user: &models.User{Username: "alice", Bio: "hi there"}})

	w := postJSON(r, "/login", `{"username":"alice","password":"secret"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "hi there", resp.Bio)
	assert.NotEmpty(t, resp.Token)

	// The token must round-trip through validation.
	claims, err := jwt.ValidateToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginInvalidCredentials(t *testing.T) {
	// Wrong password and unknown user are indistinguishable to the caller.
	r := authRouter(&stubUsers{loginErr: service.ErrInvalidCredentials})

	w := postJSON(r, "/login", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Token)
}
