package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig configures the in-process cache.
type MemoryConfig struct {
	// Capacity is the maximum number of entries before eviction kicks in.
	Capacity int

	// NumShards splits the keyspace to reduce lock contention.
	NumShards int

	// MaxTTL is the hard upper bound on entry lifetime. Per-entry TTLs
	// shorter than this are enforced on read.
	MaxTTL time.Duration

	// EvictionPercentage is the share of a shard evicted when it is full.
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings suitable for a single instance.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          16,
		MaxTTL:             time.Hour,
		EvictionPercentage: 10,
	}
}

// Memory is a Store kept in process memory. It is used for local runs and
// tests, and whenever a single instance needs no shared cache.
type Memory struct {
	client *sturdyc.Client[Entry]
	now    func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-process cache.
func NewMemory(config MemoryConfig) *Memory {
	defaults := DefaultMemoryConfig()
	if config.Capacity <= 0 {
		config.Capacity = defaults.Capacity
	}
	if config.NumShards <= 0 {
		config.NumShards = defaults.NumShards
	}
	if config.MaxTTL <= 0 {
		config.MaxTTL = defaults.MaxTTL
	}
	if config.EvictionPercentage <= 0 {
		config.EvictionPercentage = defaults.EvictionPercentage
	}

	return &Memory{
		client: sturdyc.New[Entry](
			config.Capacity,
			config.NumShards,
			config.MaxTTL,
			config.EvictionPercentage,
		),
		now: time.Now,
	}
}

// Get returns a copy of the payload stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	entry, ok := m.client.Get(key)
	if !ok {
		return nil, false
	}
	if entry.IsExpired(m.now()) {
		m.client.Delete(key)
		return nil, false
	}
	return append([]byte(nil), entry.Data...), true
}

// Set stores value under key with the given TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.client.Set(key, NewEntry(value, ttl, m.now()))
}

// Delete removes a cache entry.
func (m *Memory) Delete(_ context.Context, key string) {
	m.client.Delete(key)
}

// DeletePrefix removes every entry whose key starts with prefix.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) {
	for _, key := range m.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			m.client.Delete(key)
		}
	}
}

// Available always reports true.
func (m *Memory) Available(context.Context) bool { return true }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Size returns the number of stored entries, expired ones included.
func (m *Memory) Size() int {
	return m.client.Size()
}
