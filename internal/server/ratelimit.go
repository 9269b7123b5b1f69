package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/api"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Clients idle for this long are forgotten. Slot searches come in
// bursts while someone browses a club, so the window is kept short.
const clientTTL = 5 * time.Minute

// sweepEvery is how many bucket creations pass between prunes of
// idle clients. Pruning inline keeps the limiter goroutine-free.
const sweepEvery = 256

// RateLimiter throttles requests per client IP using a token bucket
// per client. It is purely in-memory; in a multi-instance deployment
// each instance enforces its own budget.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	created int
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

// Allow reports whether the client identified by ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
		rl.created++
		if rl.created%sweepEvery == 0 {
			rl.prune()
		}
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.bucket.Allow()
}

// prune drops idle clients. Caller holds rl.mu.
func (rl *RateLimiter) prune() {
	cutoff := time.Now().Add(-clientTTL)
	for ip, c := range rl.clients {
		if c.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// RateLimitMiddleware rejects clients that exceed rps sustained
// requests per second with a burst allowance, answering 429 with a
// Retry-After hint.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(rps, burst)
	retryAfter := strconv.Itoa(int(1/rps) + 1)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{
				Error: "too many requests, slow down",
				Code:  "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
