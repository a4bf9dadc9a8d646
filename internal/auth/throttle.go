package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/storage-service/internal/config"
)

// LoginThrottle counts failed /token attempts per client address in Redis.
// The throttle is advisory: when Redis is unreachable logins proceed.
type LoginThrottle struct {
	client *redis.Client
	cfg    config.ThrottleConfig
	logger *zap.Logger
}

// NewLoginThrottle constructs the throttle.
func NewLoginThrottle(client *redis.Client, cfg config.ThrottleConfig, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, cfg: cfg, logger: logger}
}

// Allow reports whether the address is still under the attempt limit.
func (t *LoginThrottle) Allow(ctx context.Context, addr string) bool {
	if t == nil || t.client == nil || t.cfg.MaxAttempts <= 0 {
		return true
	}
	count, err := t.client.Get(ctx, t.key(addr)).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return true
	}
	return count < t.cfg.MaxAttempts
}

// RecordFailure bumps the failed attempt counter for the address.
func (t *LoginThrottle) RecordFailure(ctx context.Context, addr string) {
	if t == nil || t.client == nil || t.cfg.MaxAttempts <= 0 {
		return
	}
	key := t.key(addr)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle unavailable", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.cfg.Window()).Err(); err != nil {
			t.logger.Warn("login throttle expiry", zap.Error(err))
		}
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, addr string) {
	if t == nil || t.client == nil {
		return
	}
	if err := t.client.Del(ctx, t.key(addr)).Err(); err != nil {
		t.logger.Warn("login throttle reset", zap.Error(err))
	}
}

func (t *LoginThrottle) key(addr string) string {
	return fmt.Sprintf("login_throttle:%s", addr)
}
