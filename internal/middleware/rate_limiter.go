package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
	Window() time.Duration
}

// RateLimiter implements a simple in-process token bucket rate limiter
type RateLimiter struct {
	mu           sync.Mutex
	tokens       map[string]int
	lastRefill   map[string]time.Time
	maxTokens    int
	refillRate   int           // tokens per refill
	refillPeriod time.Duration // how often to refill
	lastSweep    time.Time
	now          func() time.Time
}

// NewRateLimiter creates a new rate limiter
// maxTokens: maximum tokens per key
// refillRate: how many tokens to add per refill period
// refillPeriod: how often to refill tokens
func NewRateLimiter(maxTokens, refillRate int, refillPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:       make(map[string]int),
		lastRefill:   make(map[string]time.Time),
		maxTokens:    maxTokens,
		refillRate:   refillRate,
		refillPeriod: refillPeriod,
		now:          time.Now,
	}
}

// NewPerMinuteLimiter allows perMinute requests per key per minute.
func NewPerMinuteLimiter(perMinute int) *RateLimiter {
	return NewRateLimiter(perMinute, perMinute, time.Minute)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	// Initialize if first time
	if _, exists := rl.tokens[key]; !exists {
		rl.tokens[key] = rl.maxTokens
		rl.lastRefill[key] = now
	}

	// Refill tokens
	elapsed := now.Sub(rl.lastRefill[key])
	refills := int(elapsed / rl.refillPeriod)
	if refills > 0 {
		rl.tokens[key] += refills * rl.refillRate
		if rl.tokens[key] > rl.maxTokens {
			rl.tokens[key] = rl.maxTokens
		}
		rl.lastRefill[key] = now
	}

	if rl.tokens[key] > 0 {
		rl.tokens[key]--
		return true, rl.tokens[key], nil
	}

	return false, 0, nil
}

// sweep drops keys whose bucket would be full again by now. A dropped key
// starts over at maxTokens, which is the state it would have refilled to.
// Runs at most once per refill period.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.refillPeriod {
		return
	}
	rl.lastSweep = now

	for key, tokens := range rl.tokens {
		deficit := rl.maxTokens - tokens
		periods := 0
		if deficit > 0 {
			if rl.refillRate <= 0 {
				continue
			}
			periods = (deficit + rl.refillRate - 1) / rl.refillRate
		}
		if now.Sub(rl.lastRefill[key]) >= time.Duration(periods)*rl.refillPeriod {
			delete(rl.tokens, key)
			delete(rl.lastRefill, key)
		}
	}
}

// Limit returns the bucket size.
func (rl *RateLimiter) Limit() int { return rl.maxTokens }

// Window returns the refill period.
func (rl *RateLimiter) Window() time.Duration { return rl.refillPeriod }

// RateLimitMiddleware creates a rate limiting middleware.
// Uses user ID from context or falls back to IP address. Limiter errors fail open.
func RateLimitMiddleware(rl Limiter, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = "user:" + userID
		}

		allowed, remaining, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.Window().Seconds())))
			RespondErrorWithRetry(c, http.StatusTooManyRequests, ErrCodeRateLimited,
				"Too many requests, please try again later", int(rl.Window().Milliseconds()))
			return
		}

		c.Next()
	}
}
