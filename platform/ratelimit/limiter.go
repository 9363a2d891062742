// Package ratelimit provides a fixed-window request limiter backed by Redis,
// so limits hold across every API instance.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts hits per key in fixed windows.
type Limiter struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetIn   time.Duration
}

// New creates a limiter that allows limit hits per window for each key.
func New(client redis.Cmdable, prefix string, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{client: client, prefix: prefix, limit: int64(limit), window: window}
}

// Allow records a hit for key and reports whether it fits in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.redisKey(key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit ttl: %w", err)
	}
	if ttl < 0 {
		// Key lost its expiry (e.g. a crash between INCR and EXPIRE).
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = l.window
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.limit,
		Remaining: remaining,
		ResetIn:   ttl,
	}, nil
}

// Limit returns the configured hits per window.
func (l *Limiter) Limit() int64 {
	return l.limit
}

func (l *Limiter) redisKey(key string) string {
	return "ratelimit:" + l.prefix + ":" + key
}
