package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"voteguard/internal/domain"
	"voteguard/pkg/redis"
)

// CacheService caches generated results. A nil Redis client turns every call into a
// pass-through so the service runs without Redis.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// Enabled reports whether a Redis client is configured
func (c *CacheService) Enabled() bool {
	return c != nil && c.redis != nil
}

// GetResultWithCache returns a result with the cache-aside pattern. Cache errors and
// corrupt entries fall through to fetch.
func (c *CacheService) GetResultWithCache(ctx context.Context, electionID string, fetch func(ctx context.Context) (*domain.Result, error)) (*domain.Result, error) {
	if !c.Enabled() {
		return fetch(ctx)
	}

	cacheKey := c.redis.KeyBuilder.KeyElectionResult(electionID)

	cached, err := c.redis.Get(ctx, cacheKey)
	switch {
	case err == nil && cached != "":
		var result domain.Result
		if unmarshalErr := json.Unmarshal([]byte(cached), &result); unmarshalErr == nil {
			c.logger.Debug("Result cache hit", zap.String("election_id", electionID))
			return &result, nil
		} else {
			c.logger.Warn("Result cache corrupted, falling back to election API",
				zap.String("election_id", electionID),
				zap.Error(unmarshalErr))
		}
	case err != nil && !stderrors.Is(err, redis.Nil):
		c.logger.Warn("Result cache error, falling back to election API",
			zap.String("election_id", electionID),
			zap.Error(err))
	}

	c.logger.Debug("Result cache miss", zap.String("election_id", electionID))
	result, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.CacheResult(ctx, result)
	return result, nil
}

// CacheResult stores a generated result. Failures are logged and swallowed.
func (c *CacheService) CacheResult(ctx context.Context, result *domain.Result) {
	if !c.Enabled() || result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("Failed to marshal result for caching",
			zap.String("election_id", result.ElectionID.String()),
			zap.Error(err))
		return
	}

	key := c.redis.KeyBuilder.KeyElectionResult(result.ElectionID.String())
	if err := c.redis.Set(ctx, key, string(data), redis.TTLElectionResult); err != nil {
		c.logger.Error("Failed to cache result",
			zap.String("election_id", result.ElectionID.String()),
			zap.Error(err))
		return
	}
	c.logger.Debug("Result cached successfully", zap.String("election_id", result.ElectionID.String()))
}

// InvalidateResult drops a cached result, e.g. after its election is deleted
func (c *CacheService) InvalidateResult(ctx context.Context, electionID string) {
	if !c.Enabled() {
		return
	}
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyElectionResult(electionID)); err != nil {
		c.logger.Warn("Failed to invalidate cached result",
			zap.String("election_id", electionID),
			zap.Error(err))
	}
}

// HealthCheck performs a health check on the cache system
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	start := time.Now()
	err := c.redis.Health(ctx)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Cache health check failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return err
	}

	c.logger.Debug("Cache health check passed", zap.Duration("duration", duration))
	return nil
}
