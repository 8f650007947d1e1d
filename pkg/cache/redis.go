package cache

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds Redis backend tuning.
type RedisConfig struct {
	// OpTimeout bounds every single-key operation.
	OpTimeout time.Duration

	// ScanTimeout bounds a whole prefix invalidation.
	ScanTimeout time.Duration

	// ScanCount is the COUNT hint passed to SCAN.
	ScanCount int64

	// HealthInterval is how long an availability verdict is trusted before
	// the backend is pinged again.
	HealthInterval time.Duration
}

// DefaultRedisConfig returns timeouts short enough that a dead Redis cannot
// noticeably delay store-backed responses.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		OpTimeout:      100 * time.Millisecond,
		ScanTimeout:    2 * time.Second,
		ScanCount:      500,
		HealthInterval: 5 * time.Second,
	}
}

// Redis is a Store backed by a Redis server.
//
// Any backend error marks the store unavailable; until the next health
// check reads and writes short-circuit to a miss/no-op without touching the
// network. Deletes are always sent.
type Redis struct {
	redis     *redis.Client
	config    RedisConfig
	logger    zerolog.Logger
	healthy   atomic.Bool
	checkedAt atomic.Int64
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed store.
func NewRedis(redisClient *redis.Client, config RedisConfig, logger zerolog.Logger) *Redis {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	defaults := DefaultRedisConfig()
	if config.OpTimeout <= 0 {
		config.OpTimeout = defaults.OpTimeout
	}
	if config.ScanTimeout <= 0 {
		config.ScanTimeout = defaults.ScanTimeout
	}
	if config.ScanCount <= 0 {
		config.ScanCount = defaults.ScanCount
	}
	if config.HealthInterval <= 0 {
		config.HealthInterval = defaults.HealthInterval
	}
	return &Redis{
		redis:  redisClient,
		config: config,
		logger: logger,
	}
}

// Available reports the cached health verdict, pinging Redis when the
// verdict is older than HealthInterval.
func (r *Redis) Available(ctx context.Context) bool {
	last := r.checkedAt.Load()
	if last != 0 && time.Since(time.Unix(0, last)) < r.config.HealthInterval {
		return r.healthy.Load()
	}
	if !r.checkedAt.CompareAndSwap(last, time.Now().UnixNano()) {
		// another request is running the check
		return r.healthy.Load()
	}

	pingCtx, cancel := context.WithTimeout(ctx, r.config.OpTimeout)
	defer cancel()

	err := r.redis.Ping(pingCtx).Err()
	if err != nil && ctx.Err() != nil {
		// caller gave up; let the next request run the check
		r.checkedAt.Store(last)
		return r.healthy.Load()
	}
	r.setHealthy(err == nil)
	if err != nil {
		CacheErrors.WithLabelValues("ping").Inc()
		r.logger.Warn().Err(err).Msg("Redis unavailable, cache bypassed")
	}
	return err == nil
}

// Get retrieves the payload stored under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if !r.Available(ctx) {
		return nil, false
	}

	opCtx, cancel := context.WithTimeout(ctx, r.config.OpTimeout)
	defer cancel()

	data, err := r.redis.Get(opCtx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false
		}
		r.fail(ctx, "get", key, err)
		return nil, false
	}
	return data, true
}

// Set stores value under key with the given TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 || !r.Available(ctx) {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, r.config.OpTimeout)
	defer cancel()

	if err := r.redis.Set(opCtx, key, value, ttl).Err(); err != nil {
		r.fail(ctx, "set", key, err)
	}
}

// Delete removes a cache entry. Unlike reads it is attempted even while
// the backend is marked unavailable, since a skipped delete leaves a stale
// entry behind.
func (r *Redis) Delete(ctx context.Context, key string) {
	opCtx, cancel := context.WithTimeout(ctx, r.config.OpTimeout)
	defer cancel()

	if err := r.redis.Del(opCtx, key).Err(); err != nil {
		r.fail(ctx, "delete", key, err)
		return
	}
	r.succeed()
}

// DeletePrefix walks the keyspace with SCAN and unlinks every key under
// prefix in batches. KEYS is never used. Like Delete it ignores the
// availability verdict.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, r.config.ScanTimeout)
	defer cancel()

	pattern := escapeGlob(prefix) + "*"
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, pattern, r.config.ScanCount).Result()
		if err != nil {
			r.fail(parent, "scan", prefix, err)
			return
		}
		if len(keys) > 0 {
			if err := r.redis.Unlink(ctx, keys...).Err(); err != nil {
				r.fail(parent, "delete", prefix, err)
				return
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.succeed()
	r.logger.Debug().
		Str("prefix", prefix).
		Int("removed", removed).
		Msg("Invalidated cache prefix")
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.redis.Close()
}

// fail records a backend error. Errors caused by the caller's own context
// ending say nothing about Redis and leave the verdict alone.
func (r *Redis) fail(parent context.Context, op, key string, err error) {
	if parent.Err() != nil {
		r.logger.Debug().
			Err(err).
			Str("operation", op).
			Str("key", key).
			Msg("Cache operation abandoned by caller")
		return
	}

	CacheErrors.WithLabelValues(op).Inc()
	r.setHealthy(false)
	r.checkedAt.Store(time.Now().UnixNano())
	r.logger.Warn().
		Err(err).
		Str("operation", op).
		Str("key", key).
		Msg("Cache operation failed, bypassing cache")
}

// succeed marks the backend healthy after a completed round trip.
func (r *Redis) succeed() {
	if !r.healthy.Load() {
		r.setHealthy(true)
	}
}

func (r *Redis) setHealthy(ok bool) {
	r.healthy.Store(ok)
	if ok {
		CacheAvailable.Set(1)
	} else {
		CacheAvailable.Set(0)
	}
}

// escapeGlob quotes Redis glob metacharacters so the prefix matches literally.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\', '^':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
