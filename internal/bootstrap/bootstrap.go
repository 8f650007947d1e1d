// Package bootstrap builds the configured store and cache backends for the
// catalog binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/config"
	"github.com/Sternrassler/catalog-api/pkg/logging"
	"github.com/Sternrassler/catalog-api/pkg/store"
)

// redisPingTimeout bounds the startup probe of the cache server.
const redisPingTimeout = 2 * time.Second

// Store is a document store the binaries can manage.
type Store interface {
	catalog.DocumentStore
	CountAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, products []catalog.Product) error
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

// OpenStore connects the configured document store. The returned close
// function releases its connections.
func OpenStore(ctx context.Context, cfg config.Config) (Store, func(context.Context) error, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemory(), func(context.Context) error { return nil }, nil

	case config.BackendMongo:
		m, err := store.Connect(ctx, store.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.DBName,
			MaxPoolSize:    cfg.MongoMaxPool,
			MinPoolSize:    cfg.MongoMinPool,
			ConnectTimeout: cfg.MongoConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = m.Close(context.Background())
			return nil, nil, err
		}
		return m, m.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// OpenCache builds the configured cache. A Redis server that cannot be
// reached at startup is logged and replaced by a disabled cache; the
// service keeps serving from the store.
func OpenCache(ctx context.Context, cfg config.Config, logger zerolog.Logger) cache.Store {
	if !cfg.EnableCache {
		logger.Info().Msg("Response cache disabled")
		return cache.Noop{}
	}

	switch cfg.CacheBackend {
	case config.BackendMemory:
		logger.Info().Int("capacity", cfg.MemoryCacheCapacity).Msg("Using in-process cache")
		return cache.NewMemory(cache.MemoryConfig{Capacity: cfg.MemoryCacheCapacity})

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Warn().
				Err(err).
				Str("addr", cfg.RedisAddr()).
				Msg("Redis unreachable, continuing without cache")
			_ = client.Close()
			return cache.Noop{}
		}

		logger.Info().Str("addr", cfg.RedisAddr()).Msg("Connected to Redis")
		return cache.NewRedis(client, cache.RedisConfig{OpTimeout: cfg.CacheOpTimeout}, logging.NewLogger("cache-redis"))

	default:
		logger.Warn().Str("backend", cfg.CacheBackend).Msg("Unknown cache backend, continuing without cache")
		return cache.Noop{}
	}
}

// EngineConfig maps service settings onto the catalog engine settings.
func EngineConfig(cfg config.Config) catalog.Config {
	return catalog.Config{
		CacheTTL:        cfg.CacheTTL,
		DefaultPageSize: cfg.PageSizeDefault,
		MaxPageSize:     cfg.PageSizeMax,
		StoreTimeout:    cfg.StoreOpTimeout,
	}
}
