package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hiphil2000/IB.React/internal/util"
)

const (
	attemptKeyPrefix = "login:attempts:"
	blockKeyPrefix   = "login:block:"
)

// LoginLimiter is a fixed-window per-client counter for login attempts.
// Exceeding the limit blocks the client for the configured block time.
type LoginLimiter struct {
	client    *redis.Client
	limit     int
	interval  time.Duration
	blockTime time.Duration
}

func NewLoginLimiter(client *redis.Client, cfg *util.RateLimiterConfig) *LoginLimiter {
	return &LoginLimiter{
		client:    client,
		limit:     cfg.Limit,
		interval:  cfg.Interval,
		blockTime: cfg.BlockTime,
	}
}

// Allow reports whether the client identified by key may attempt a login.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	blocked, err := l.client.Exists(ctx, blockKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("check login block: %w", err)
	}
	if blocked > 0 {
		return false, nil
	}

	count, err := l.client.Incr(ctx, attemptKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("count login attempt: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, attemptKeyPrefix+key, l.interval).Err(); err != nil {
			return false, fmt.Errorf("expire login attempts: %w", err)
		}
	}

	if count > int64(l.limit) {
		if err := l.client.Set(ctx, blockKeyPrefix+key, "blocked", l.blockTime).Err(); err != nil {
			return false, fmt.Errorf("set login block: %w", err)
		}
		return false, nil
	}

	return true, nil
}
