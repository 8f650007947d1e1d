// Package testutil provides testing utilities for the catalog API.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/catalog-api/pkg/cache"
)

// SpyCache wraps a cache.Store and records every call made through it.
type SpyCache struct {
	inner cache.Store

	mu     sync.RWMutex
	gets   int
	hits   int
	sets   int
	dels   []string
	prefix []string
	ttls   map[string]time.Duration
}

var _ cache.Store = (*SpyCache)(nil)

// NewSpyCache wraps inner. A nil inner uses a fresh in-memory cache.
func NewSpyCache(inner cache.Store) *SpyCache {
	if inner == nil {
		inner = cache.NewMemory(cache.DefaultMemoryConfig())
	}
	return &SpyCache{
		inner: inner,
		ttls:  make(map[string]time.Duration),
	}
}

func (s *SpyCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, ok := s.inner.Get(ctx, key)
	s.mu.Lock()
	s.gets++
	if ok {
		s.hits++
	}
	s.mu.Unlock()
	return data, ok
}

func (s *SpyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	s.sets++
	s.ttls[key] = ttl
	s.mu.Unlock()
	s.inner.Set(ctx, key, value, ttl)
}

func (s *SpyCache) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	s.dels = append(s.dels, key)
	s.mu.Unlock()
	s.inner.Delete(ctx, key)
}

func (s *SpyCache) DeletePrefix(ctx context.Context, prefix string) {
	s.mu.Lock()
	s.prefix = append(s.prefix, prefix)
	s.mu.Unlock()
	s.inner.DeletePrefix(ctx, prefix)
}

func (s *SpyCache) Available(ctx context.Context) bool { return s.inner.Available(ctx) }
func (s *SpyCache) Close() error                       { return s.inner.Close() }

// Put writes raw bytes straight into the wrapped store without recording.
func (s *SpyCache) Put(key string, value []byte, ttl time.Duration) {
	s.inner.Set(context.Background(), key, value, ttl)
}

// Calls returns the total number of recorded calls.
func (s *SpyCache) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets + s.sets + len(s.dels) + len(s.prefix)
}

// Gets returns the number of Get calls.
func (s *SpyCache) Gets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets
}

// Hits returns the number of Get calls that hit.
func (s *SpyCache) Hits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits
}

// Sets returns the number of Set calls.
func (s *SpyCache) Sets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets
}

// TTL returns the ttl of the last Set for key.
func (s *SpyCache) TTL(key string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ttl, ok := s.ttls[key]
	return ttl, ok
}

// Deleted returns the keys passed to Delete, in call order.
func (s *SpyCache) Deleted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.dels...)
}

// DeletedPrefixes returns the prefixes passed to DeletePrefix, in call order.
func (s *SpyCache) DeletedPrefixes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.prefix...)
}

// KeysWithPrefix returns the sorted keys set under prefix so far.
func (s *SpyCache) KeysWithPrefix(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.ttls {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Reset clears the recorded calls.
func (s *SpyCache) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets, s.hits, s.sets = 0, 0, 0
	s.dels, s.prefix = nil, nil
	s.ttls = make(map[string]time.Duration)
}
