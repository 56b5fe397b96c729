// Package ratelimit implements fixed-window request limiting backed by Redis
// or by process memory.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait before the window resets
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// Limiter counts hits per key within a fixed window
type Limiter interface {
	Allow(ctx context.Context, key string, limit int) (Decision, error)
}

// InMemoryLimiter keeps windows in a mutex-guarded map. Suitable for a single instance.
type InMemoryLimiter struct {
	Window time.Duration

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	sweeps  int
}

type window struct {
	count   int
	resetAt time.Time
}

// NewInMemory creates an in-process limiter
func NewInMemory(win time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		Window:  win,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// WithClock replaces the limiter's time source
func (l *InMemoryLimiter) WithClock(now func() time.Time) *InMemoryLimiter {
	l.now = now
	return l
}

// Allow records a hit for key and reports whether it fits within limit
func (l *InMemoryLimiter) Allow(_ context.Context, key string, limit int) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.Window)}
		l.windows[key] = w
	}
	w.count++

	return decide(w.count, limit, w.resetAt), nil
}

// sweep drops expired windows every few hundred calls so idle keys do not accumulate
func (l *InMemoryLimiter) sweep(now time.Time) {
	l.sweeps++
	if l.sweeps < 512 {
		return
	}
	l.sweeps = 0
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

// RedisLimiter shares windows across instances through INCR and PEXPIRE
type RedisLimiter struct {
	Window time.Duration
	Prefix string

	client *redis.Client
	now    func() time.Time
}

// NewRedis creates a Redis-backed limiter
func NewRedis(client *redis.Client, win time.Duration) *RedisLimiter {
	return &RedisLimiter{
		Window: win,
		Prefix: "hostelhub:ratelimit:",
		client: client,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it fits within limit
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int) (Decision, error) {
	redisKey := l.Prefix + key

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	count := int(n)

	// The first hit opens the window
	if count == 1 {
		if err := l.client.PExpire(ctx, redisKey, l.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read rate limit ttl: %w", err)
	}
	if ttl < 0 {
		// Key without expiry, reopen the window
		if err := l.client.PExpire(ctx, redisKey, l.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
		ttl = l.Window
	}

	return decide(count, limit, l.now().Add(ttl)), nil
}

func decide(count, limit int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
