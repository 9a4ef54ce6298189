package middleware

import (
	"context"
	"fmt"
	"milkroute/internal/config"
	"milkroute/internal/models"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-client rate limiting using a token bucket
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
	window   time.Duration
	requests int
	now      func() time.Time
}

// NewRateLimiter creates a limiter that refills cfg.Requests tokens every
// cfg.Window. Clients idle for longer than cfg.Cleanup are forgotten once
// StartCleanup runs.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}
	cleanup := cfg.Cleanup
	if cleanup <= 0 {
		cleanup = time.Hour
	}

	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Every(cfg.Window / time.Duration(cfg.Requests)),
		burst:    burst,
		cleanup:  cleanup,
		window:   cfg.Window,
		requests: cfg.Requests,
		now:      time.Now,
	}
}

// getLimiter returns the limiter for key, creating it with a full bucket
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// StartCleanup drops idle clients every cleanup interval until ctx is done
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.cleanup)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for Swagger documentation
		if strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Next()
			return
		}

		limiter := rl.getLimiter(c.ClientIP())
		now := rl.now()

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))

		if !limiter.AllowN(now, 1) {
			retryAfter := limiter.ReserveN(now, 1)
			delay := retryAfter.DelayFrom(now)
			retryAfter.CancelAt(now)

			seconds := int(delay.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(delay).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		// Calculate remaining tokens
		tokens := int(limiter.TokensAt(now))
		if tokens < 0 {
			tokens = 0
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", tokens))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(rl.window).Unix()))

		c.Next()
	}
}
