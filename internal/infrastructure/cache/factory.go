package cache

import (
	"fmt"
	"time"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/infrastructure/auth"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the cache-backed components. It connects to Redis once and
// falls back to in-memory implementations when Redis is not configured or
// unreachable.
type Factory struct {
	redisConfig           config.RedisConfig
	loc                   *time.Location
	logger                *zap.Logger
	allowInMemoryFallback bool
	floor                 shared.SequenceFloor

	client *redis.Client
	tried  bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis is an error.
// Default is true (allow fallback).
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithLocation sets the timezone daily sequences roll over in
func WithLocation(loc *time.Location) FactoryOption {
	return func(f *Factory) {
		f.loc = loc
	}
}

// WithSequenceFloor seeds sequence generators from numbers already stored
func WithSequenceFloor(floor shared.SequenceFloor) FactoryOption {
	return func(f *Factory) {
		f.floor = floor
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		loc:                   time.UTC,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client returns the shared Redis client, or nil when running in-memory
func (f *Factory) Client() (*redis.Client, error) {
	if f.tried {
		return f.client, nil
	}
	f.tried = true

	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory cache components")
		return nil, nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("connected to Redis", zap.String("addr", f.redisConfig.Addr()))
		f.client = client
		return client, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory cache components. "+
		"Document numbers are only unique within this instance.",
		zap.Error(err),
	)
	return nil, nil
}

// SequenceGenerator returns the document number generator
func (f *Factory) SequenceGenerator() (shared.SequenceGenerator, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client != nil {
		return NewRedisSequenceGenerator(client, f.loc).SeedFrom(f.floor), nil
	}
	return NewInMemorySequenceGenerator(f.loc).SeedFrom(f.floor), nil
}

// RevocationStore returns the JWT revocation store
func (f *Factory) RevocationStore() (auth.RevocationStore, error) {
	client, err := f.Client()
	if err != nil {
		return nil, err
	}
	if client != nil {
		return auth.NewRedisRevocationStore(client), nil
	}
	return auth.NewInMemoryRevocationStore(), nil
}

// Close releases the Redis connection if one was opened
func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
