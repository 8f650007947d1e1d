package cache

import (
	"context"
	"time"
)

// Store is a best-effort key-value cache. Implementations never surface
// errors: an unreachable or disabled backend behaves as an always-miss,
// write-nothing cache.
type Store interface {
	// Get returns the stored bytes and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. A non-positive ttl is ignored.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes key.
	Delete(ctx context.Context, key string)

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string)

	// Available reports whether the backend is currently serving requests.
	Available(ctx context.Context) bool

	// Close releases backend resources.
	Close() error
}

// Noop is the Store used when caching is disabled.
type Noop struct{}

var _ Store = Noop{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
func (Noop) Delete(context.Context, string) {}
func (Noop) DeletePrefix(context.Context, string) {}
func (Noop) Available(context.Context) bool { return false }
func (Noop) Close() error { return nil }
