package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	apperrors "voteguard/pkg/errors"
	"voteguard/pkg/redis"
)

// RedisInflight guards actions across service instances with SETNX keys that expire
// after redis.TTLInflight, so a crashed holder cannot block an action for long.
type RedisInflight struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewRedisInflight creates a Redis-backed in-flight guard
func NewRedisInflight(redisClient *redis.Client, logger *zap.Logger) *RedisInflight {
	return &RedisInflight{redis: redisClient, logger: logger}
}

// Acquire implements InflightGuard
func (g *RedisInflight) Acquire(ctx context.Context, action, subject string) (func(), error) {
	key := g.redis.KeyBuilder.KeyInflight(action, subject)

	acquired, err := g.redis.SetNX(ctx, key, "1", redis.TTLInflight)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to acquire submission lock", err)
	}
	if !acquired {
		g.logger.Info("Duplicate submission refused",
			zap.String("action", action),
			zap.String("subject", subject))
		return nil, apperrors.NewDuplicateSubmissionError("this action is already in progress")
	}

	return func() {
		// The caller's ctx may already be cancelled once the action finishes.
		if err := g.redis.Delete(context.WithoutCancel(ctx), key); err != nil {
			g.logger.Warn("Failed to release submission lock",
				zap.String("action", action),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}, nil
}

// Held implements InflightGuard
func (g *RedisInflight) Held(ctx context.Context, action, subject string) (bool, error) {
	n, err := g.redis.Exists(ctx, g.redis.KeyBuilder.KeyInflight(action, subject))
	if err != nil {
		return false, apperrors.NewInternalError("failed to check submission lock", err)
	}
	return n > 0, nil
}

// LocalInflight guards actions within one process
type LocalInflight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

// NewLocalInflight creates an in-process in-flight guard
func NewLocalInflight() *LocalInflight {
	return &LocalInflight{running: make(map[string]struct{})}
}

// Acquire implements InflightGuard
func (g *LocalInflight) Acquire(_ context.Context, action, subject string) (func(), error) {
	key := action + ":" + subject

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.running[key]; busy {
		return nil, apperrors.NewDuplicateSubmissionError("this action is already in progress")
	}
	g.running[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, key)
			g.mu.Unlock()
		})
	}, nil
}

// Held implements InflightGuard
func (g *LocalInflight) Held(_ context.Context, action, subject string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.running[action+":"+subject]
	return busy, nil
}
