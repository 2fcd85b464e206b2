package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	results []string
	err     error
}

func (s *stubSearcher) Search(query string) ([]string, error) {
	return s.results, s.err
}

func searchRouter(users UserSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(users, testAPILogger())
	r := gin.New()
	r.GET("/search/:query", h.Search)
	return r
}

func TestSearchReturnsBareArray(t *testing.T) {
	r := searchRouter(&stubSearcher{results: []string{"alice", "alicia"}})

	req, _ := http.NewRequest(http.MethodGet, "/search/al", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{"alice", "alicia"}, got)
}

func TestSearchNoMatches(t *testing.T) {
	r := searchRouter(&stubSearcher{})

	req, _ := http.NewRequest(http.MethodGet, "/search/zzz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Empty array, never null.
	assert.Equal(t, "[]", w.Body.String())
}

func TestSearchServiceError(t *testing.T) {
	r := searchRouter(&stubSearcher{err: errors.New("db down")})

	req, _ := http.NewRequest(http.MethodGet, "/search/al", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
