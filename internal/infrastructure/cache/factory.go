// Package cache provides the idempotency stores that keep event
// handlers from double-applying credit grants and notifications.
package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/granada-os/backend/internal/domain/shared"
	"github.com/granada-os/backend/internal/infrastructure/config"
)

// IdempotencyStoreFactory picks the idempotency backend. Redis when
// reachable, otherwise an in-process map for single-node deployments.
type IdempotencyStoreFactory struct {
	redisConfig  config.RedisConfig
	logger       *zap.Logger
	requireRedis bool
}

// IdempotencyStoreFactoryOption configures the factory.
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger attaches a logger to the factory.
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithRequiredRedis makes CreateStore fail instead of falling back
// when Redis is down. Multi-instance deployments set this, a local
// map cannot deduplicate events across processes.
func WithRequiredRedis() IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.requireRedis = true
	}
}

// NewIdempotencyStoreFactory builds a factory around the Redis config.
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig: cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore connects to Redis and returns a store backed by it.
func (f *IdempotencyStoreFactory) CreateRedisStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("create Redis idempotency store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore returns the in-process store.
func (f *IdempotencyStoreFactory) CreateInMemoryStore() shared.IdempotencyStore {
	return NewInMemoryIdempotencyStore()
}

// CreateStore returns the Redis store when it connects, otherwise the
// in-memory fallback unless Redis was marked required.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("Using Redis idempotency store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if f.requireRedis {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, using in-memory idempotency store; duplicate events are only filtered within this process",
		zap.Error(err))
	return f.CreateInMemoryStore(), nil
}
