package container

import (
	"context"

	"github.com/jonboulle/clockwork"

	"voteguard/internal/backend"
	"voteguard/internal/config"
	"voteguard/internal/lifecycle"
	"voteguard/internal/service"
	"voteguard/internal/service/auth"
	"voteguard/pkg/logger"
	"voteguard/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Backend     *backend.Client
	Auth        *auth.Service
	Cache       *service.CacheService
	Services    *service.Services
	Watcher     *lifecycle.Watcher
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	return NewWithClock(cfg, logger, clockwork.NewRealClock())
}

// NewWithClock is New with an explicit clock for every time-dependent component
func NewWithClock(cfg *config.Config, logger *logger.Logger, clock clockwork.Clock) (*Container, error) {
	// Redis is optional: without it results are not cached and the in-flight guard is per process.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	zl := logger.Logger
	api := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, logger.WithField("component", "election_api"))
	cache := service.NewCacheService(redisClient, zl)

	var inflight service.InflightGuard
	if redisClient != nil {
		inflight = service.NewRedisInflight(redisClient, zl)
	} else {
		inflight = service.NewLocalInflight()
	}

	results := service.NewResultPresenter(api, api, cache, inflight, clock, zl)
	services := &service.Services{
		Elections:     service.NewElectionService(api, results, clock, cfg.CodeMaxAttempts, zl),
		Participation: service.NewParticipationService(api, cfg.BulkConcurrency, zl),
		Directory:     service.NewDirectory(api, api, clock, cfg.BulkConcurrency, zl),
		Voting:        service.NewVotingService(api, results, inflight, clock, zl),
		Results:       results,
		Users:         service.NewUserService(api, zl),
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		Backend:     api,
		Auth:        auth.NewService(cfg.SessionJWTSecret, logger),
		Cache:       cache,
		Services:    services,
		Watcher:     lifecycle.NewWatcher(clock),
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases the Redis connection, if any
func (c *Container) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}

// HealthCheck reports the state of each dependency. Redis is omitted when not configured.
func (c *Container) HealthCheck(ctx context.Context) map[string]error {
	checks := map[string]error{
		"election_api": c.Backend.Health(ctx),
	}
	if c.HasRedis() {
		checks["redis"] = c.Cache.HealthCheck(ctx)
	}
	return checks
}
