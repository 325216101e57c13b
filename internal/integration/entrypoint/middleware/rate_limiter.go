// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxAttempts is the default burst of requests allowed per client.
	defaultMaxAttempts = 5
	// defaultWindowDuration is the time a client needs to earn back a full burst.
	defaultWindowDuration = 1 * time.Minute
)

// RateLimiter provides IP-based rate limiting with one token bucket per client.
// Idle buckets expire from the cache once they would have refilled anyway.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig allows maxAttempts requests at once, refilled evenly over windowDuration.
func NewRateLimiterWithConfig(maxAttempts int, windowDuration time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}
	return &RateLimiter{
		limiters: cache.New(windowDuration, 2*windowDuration),
		limit:    rate.Every(windowDuration / time.Duration(maxAttempts)),
		burst:    maxAttempts,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in E2E mode or test environment
		if os.Getenv("E2E_MODE") == "true" || os.Getenv("ENV") == "test" {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		if !rl.allow(clientIP) {
			slog.Warn("Rate limit exceeded", "clientIP", clientIP, "path", c.FullPath())
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow checks if a request from the given key should be allowed.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var limiter *rate.Limiter
	if cached, found := rl.limiters.Get(key); found {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	rl.limiters.SetDefault(key, limiter)

	return limiter.Allow()
}

// Reset clears the rate limiter state.
func (rl *RateLimiter) Reset() {
	rl.limiters.Flush()
}

// Cleanup removes expired buckets.
func (rl *RateLimiter) Cleanup() {
	rl.limiters.DeleteExpired()
}
