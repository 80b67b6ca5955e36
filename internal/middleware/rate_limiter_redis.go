package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window limiter shared by every replica through Redis.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisRateLimiter allows limit requests per key per window.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "promptspec:ratelimit",
		now:    time.Now,
	}
}

// Allow increments the counter of the current window for key.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := r.now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("%s:%s:%d", r.prefix, key, bucket)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	if count > r.limit {
		return false, 0, nil
	}
	return true, r.limit - count, nil
}

// Limit returns the number of requests allowed per window.
func (r *RedisRateLimiter) Limit() int { return r.limit }

// Window returns the window length.
func (r *RedisRateLimiter) Window() time.Duration { return r.window }
