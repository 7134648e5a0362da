package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/report"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// StatsCacheFactory creates stats caches based on configuration
type StatsCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StatsCacheFactoryOption is a functional option for configuring the factory
type StatsCacheFactoryOption func(*StatsCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StatsCacheFactoryOption {
	return func(f *StatsCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StatsCacheFactoryOption {
	return func(f *StatsCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStatsCacheFactory creates a new factory
func NewStatsCacheFactory(cfg config.RedisConfig, opts ...StatsCacheFactoryOption) *StatsCacheFactory {
	f := &StatsCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed stats cache
func (f *StatsCacheFactory) CreateRedisCache() (report.StatsCache, error) {
	cache, err := NewRedisStatsCache(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis stats cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory stats cache.
// Suitable for single-instance deployments and testing.
func (f *StatsCacheFactory) CreateInMemoryCache() report.StatsCache {
	return NewInMemoryStatsCache()
}

// CreateCache creates a stats cache based on whether Redis is available.
// It tries Redis first and falls back to in-memory when allowed.
func (f *StatsCacheFactory) CreateCache() (report.StatsCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis stats cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for stats cache but unavailable: %w", err)
	}

	// Stale dashboards across instances are acceptable, duplicate reads are not harmful
	f.logger.Warn("Redis unavailable, falling back to in-memory stats cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
