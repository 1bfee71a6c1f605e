package app

import (
	"context"
	"fmt"

	"finease/internal/cache"
	"finease/internal/repository"
	"finease/internal/repository/memory"
	"finease/pkg/config"
	"finease/pkg/metrics"
	"finease/pkg/postgres"

	"go.uber.org/zap"
)

// OpenStore builds the transaction store selected by cfg.Storage.Driver and
// wraps it in the circuit breaker. The returned close func releases the pool.
func OpenStore(ctx context.Context, cfg *config.Config, collector metrics.Collector, logger *zap.Logger) (repository.Store, func(), error) {
	var (
		store repository.Store
		closeFn = func() {}
	)

	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		store = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.Database.RunMigrations {
			if err := postgres.RunMigrations(pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		store = repository.NewTransactionRepository(pool, logger)
		closeFn = pool.Close
	}

	return repository.NewResilientStore("transactions", store, resilienceConfig(cfg), collector, logger), closeFn, nil
}

func resilienceConfig(cfg *config.Config) repository.ResilienceConfig {
	rc := repository.DefaultResilienceConfig()
	if cfg.Database.QueryTimeout > 0 {
		rc.Timeout = cfg.Database.QueryTimeout
	}
	if cfg.Breaker.MaxRequests > 0 {
		rc.MaxRequests = cfg.Breaker.MaxRequests
	}
	if cfg.Breaker.Interval > 0 {
		rc.Interval = cfg.Breaker.Interval
	}
	if cfg.Breaker.OpenTimeout > 0 {
		rc.OpenTimeout = cfg.Breaker.OpenTimeout
	}
	if cfg.Breaker.ConsecutiveFailures > 0 {
		rc.ConsecutiveFailures = cfg.Breaker.ConsecutiveFailures
	}
	return rc
}

// OpenSummaryCache returns the Redis cache when an address is configured and
// a no-op cache otherwise. An unreachable Redis is logged and skipped.
func OpenSummaryCache(cfg *config.RedisConfig, logger *zap.Logger) (cache.SummaryCache, func()) {
	if cfg.Addr == "" {
		return cache.Noop{}, func() {}
	}

	rc, err := cache.NewRedisSummaryCache(cache.RedisConfig{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		KeyPrefix: cfg.KeyPrefix,
		TTL:       cfg.SummaryTTL,
	}, logger)
	if err != nil {
		logger.Warn("Summary cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		return cache.Noop{}, func() {}
	}
	return rc, rc.Close
}
