// Package ratelimit provides Redis-based fixed-window rate limiting.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts events per key in fixed windows. A nil Limiter, or one
// without a Redis client, allows everything.
type Limiter struct {
	redis  *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{redis: client, prefix: prefix, limit: limit, window: window}
}

// Allow records one event for key and reports whether it is within the
// limit. On a Redis failure it returns true together with the error.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.redis == nil || l.limit <= 0 {
		return true, nil
	}

	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("ratelimit: incr %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.window).Err(); err != nil {
			log.Printf("[RateLimit] expire %s failed: %v", redisKey, err)
		}
	}
	return int(count) <= l.limit, nil
}

// Connect opens a Redis client for addr and verifies it with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ratelimit: ping redis at %s: %w", addr, err)
	}
	return client, nil
}
