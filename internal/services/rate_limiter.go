package services

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter counts attempts per key over a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedisRateLimiter keeps one counter per key that expires with the window.
// Without a client every attempt is allowed.
type RedisRateLimiter struct {
	redis *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{redis: client}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.redis == nil || limit <= 0 {
		return true, nil
	}

	// INCR is atomic, so concurrent callers each see a distinct count.
	n, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := r.redis.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("[SPLIT_BILLING] Failed to set expiry on %s: %v", key, err)
		}
	}
	return n <= int64(limit), nil
}
