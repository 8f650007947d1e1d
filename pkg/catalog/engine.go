package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/logging"
	"github.com/Sternrassler/catalog-api/pkg/pagination"
)

// Config holds engine and coordinator settings.
type Config struct {
	// CacheTTL is the lifetime of list and stats entries. Detail entries
	// live twice as long.
	CacheTTL time.Duration

	// DefaultPageSize applies when a list request carries no page size.
	DefaultPageSize int

	// MaxPageSize is the largest accepted page size, at most PageSizeLimit.
	MaxPageSize int

	// StoreTimeout bounds every document store call (0 = request context only).
	StoreTimeout time.Duration
}

// PageSizeLimit is the hard upper bound on a list page.
const PageSizeLimit = 1000

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        300 * time.Second,
		DefaultPageSize: 50,
		MaxPageSize:     PageSizeLimit,
		StoreTimeout:    5 * time.Second,
	}
}

// DetailTTL is the lifetime of a cached single product.
func (c Config) DetailTTL() time.Duration {
	return 2 * c.CacheTTL
}

const engineComponent = "catalog-engine"

// Engine serves catalog reads through a read-through cache.
type Engine struct {
	store  DocumentStore
	cache  cache.Store
	config Config
	logger zerolog.Logger
}

// NewEngine creates a query engine. A nil cache disables caching.
func NewEngine(store DocumentStore, c cache.Store, cfg Config) *Engine {
	if store == nil {
		panic("document store cannot be nil")
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &Engine{
		store:  store,
		cache:  c,
		config: withDefaults(cfg),
		logger: logging.NewLogger(engineComponent),
	}
}

// log returns the logger for a call, carrying the request id when ctx has one.
func (e *Engine) log(ctx context.Context) *zerolog.Logger {
	l := logging.Scoped(ctx, e.logger, engineComponent)
	return &l
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// List returns one page of products matching params. Invalid parameters are
// rejected before the cache or the store is touched.
func (e *Engine) List(ctx context.Context, params ListParams) (*ProductPage, error) {
	params = params.Normalize()
	if err := params.Validate(e.config.MaxPageSize); err != nil {
		return nil, err
	}

	key := ListKey(params).String()
	if page, ok := lookup[ProductPage](ctx, e, OpList, key); ok {
		return page, nil
	}

	start := time.Now()
	q := BuildQuery(params)

	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	var (
		total    int64
		products []Product
	)
	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		var err error
		total, err = e.store.Count(gctx, q.Predicate)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = e.store.Find(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		e.log(ctx).Error().Err(err).Str("key", key).Msg("List query failed")
		return nil, storeError("list products", err)
	}

	if products == nil {
		products = []Product{}
	}
	page := &ProductPage{
		Products:   products,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: pagination.TotalPages(total, params.PageSize),
	}

	e.log(ctx).Debug().
		Str("key", key).
		Int64("total", total).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("List computed")

	e.writeThrough(ctx, key, page, e.config.CacheTTL)
	return page, nil
}

// Walk returns every product matching params, fetching params.PageSize
// items per page through List so each page is cached like any other.
// params.Page is ignored.
func (e *Engine) Walk(ctx context.Context, params ListParams, cfg pagination.Config) ([]Product, error) {
	w := pagination.NewWalker(func(ctx context.Context, page int) ([]Product, int, error) {
		p := params
		p.Page = page
		res, err := e.List(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		return res.Products, res.TotalPages, nil
	}, cfg)

	products, err := w.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Get returns a single product. Missing products are never cached.
func (e *Engine) Get(ctx context.Context, id string) (*Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	key := DetailKey(oid).String()
	if p, ok := lookup[Product](ctx, e, OpDetail, key); ok {
		return p, nil
	}

	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	p, err := e.store.FindOne(sctx, oid)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(oid.Hex())
		}
		e.log(ctx).Error().Err(err).Str("id", oid.Hex()).Msg("Product lookup failed")
		return nil, storeError("get product", err)
	}

	e.writeThrough(ctx, key, p, e.config.DetailTTL())
	return p, nil
}

// Stats returns the collection summary. An empty collection yields a zero
// record.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	key := StatsKey().String()
	if s, ok := lookup[Stats](ctx, e, OpStats, key); ok {
		return s, nil
	}

	sctx, cancel := e.storeContext(ctx)
	defer cancel()

	s, err := e.store.Aggregate(sctx)
	if err != nil {
		e.log(ctx).Error().Err(err).Msg("Stats aggregation failed")
		return nil, storeError("aggregate stats", err)
	}
	if s == nil {
		s = &Stats{}
	}

	e.writeThrough(ctx, key, s, e.config.CacheTTL)
	return s, nil
}

// lookup reads and decodes a cache entry. Undecodable entries are logged,
// counted and dropped, then reported as a miss.
func lookup[T any](ctx context.Context, e *Engine, op, key string) (*T, bool) {
	data, ok := e.cache.Get(ctx, key)
	if !ok {
		cache.CacheMisses.WithLabelValues(op).Inc()
		e.log(ctx).Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}

	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		cache.CacheCorrupt.Inc()
		cache.CacheMisses.WithLabelValues(op).Inc()
		e.log(ctx).Warn().
			Err(err).
			Str("key", key).
			Int("size", len(data)).
			Msg("Corrupt cache entry, recomputing")
		e.cache.Delete(ctx, key)
		return nil, false
	}

	cache.CacheHits.WithLabelValues(op).Inc()
	e.log(ctx).Debug().Str("key", key).Msg("Cache hit")
	return v, true
}

// writeThrough writes v through to the cache. Encoding failures only skip caching.
func (e *Engine) writeThrough(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		e.log(ctx).Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	e.cache.Set(ctx, key, data, ttl)
}

func (e *Engine) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return storeContext(ctx, e.config.StoreTimeout)
}

func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func withDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaults.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 || cfg.MaxPageSize > PageSizeLimit {
		cfg.MaxPageSize = defaults.MaxPageSize
	}
	return cfg
}
