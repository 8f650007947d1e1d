// Package cache provides the response cache used by the catalog read path.
//
// Backends implement Store and are strictly best-effort: a backend that is
// unreachable, slow or disabled degrades to an always-miss cache and never
// returns errors to callers. Three backends are provided:
//
//   - Redis: shared cache for multi-instance deployments
//   - Memory: in-process cache (sturdyc) for single instances and tests
//   - Noop: used when caching is disabled
//
// # Keys
//
// Keys are derived deterministically from an operation name and its
// normalized parameters:
//
//	key := cache.Key{
//		Operation: "products_list",
//		Params:    map[string]any{"page": 1, "page_size": 50, "category": "Books"},
//	}
//	key.String() // catalog:products_list:category=Books:page=1:page_size=50
//
// Absent parameters are omitted, list parameters are order-insensitive, and
// values are escaped so that user input cannot forge a separator.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store := cache.NewRedis(redisClient, cache.DefaultRedisConfig(), logger)
//
//	store.Set(ctx, key.String(), payload, 5*time.Minute)
//	if data, ok := store.Get(ctx, key.String()); ok {
//		// hit
//	}
//
//	// drop every cached listing
//	store.DeletePrefix(ctx, cache.OperationPrefix("products_list"))
//
// # Metrics
//
// Prometheus metrics exposed:
//   - catalog_cache_hits_total{operation}
//   - catalog_cache_misses_total{operation}
//   - catalog_cache_corrupt_total
//   - catalog_cache_invalidations_total{scope}
//   - catalog_cache_errors_total{operation}
//   - catalog_cache_available
package cache
