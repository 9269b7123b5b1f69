package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/api"
)

func TestRateLimiter_BurstThenRefusal(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("203.0.113.7"), "request %d should fit in the burst", i)
	}
	assert.False(t, rl.Allow("203.0.113.7"), "burst exhausted, fourth request should be refused")

	// A different client has its own bucket.
	assert.True(t, rl.Allow("203.0.113.8"))
}

func TestRateLimitMiddleware_Rejects429WithRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(1, 1))
	router.GET("/clubs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/clubs", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/clubs", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	var resp api.ErrorResponse
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMITED", resp.Code)
}
