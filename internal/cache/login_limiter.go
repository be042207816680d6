package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// LoginLimiter counts authentication attempts per key within a window.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLoginLimiter is a fixed-window counter shared by every API instance
// that points at the same Redis.
type RedisLoginLimiter struct {
	client *redisv9.Client
	limit  int64
	window time.Duration
}

func NewRedisLoginLimiter(client *redisv9.Client, limit int, window time.Duration) *RedisLoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLoginLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
	}
}

// Allow creates the window key with its expiry and increments it inside one
// MULTI, so a counter never exists without a TTL.
func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.key(key)

	var incr *redisv9.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, l.window)
		incr = pipe.Incr(ctx, redisKey)
		return nil
	})
	if err != nil {
		return true, fmt.Errorf("redis incr login counter failed: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

func (l *RedisLoginLimiter) key(key string) string {
	return fmt.Sprintf("portfolio:rl:login:%s", key)
}

// LocalLoginLimiter keeps a token bucket per key in process memory. It is
// used when Redis is disabled.
type LocalLoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalLoginLimiter(limit int, window time.Duration) *LocalLoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalLoginLimiter{
		limiters: make(map[string]*localEntry),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  2 * window,
		now:      time.Now,
	}
}

func (l *LocalLoginLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.limiters[key]
	if !ok {
		l.evictIdle(now)
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1), nil
}

func (l *LocalLoginLimiter) evictIdle(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, k)
		}
	}
}
