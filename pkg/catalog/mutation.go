package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/logging"
)

const mutationsComponent = "catalog-mutations"

// Coordinator applies product mutations and invalidates the cache entries
// they make stale.
type Coordinator struct {
	store     DocumentStore
	cache     cache.Store
	validator *Validator
	config    Config
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCoordinator creates a mutation coordinator. A nil cache disables
// invalidation.
func NewCoordinator(store DocumentStore, c cache.Store, cfg Config) *Coordinator {
	if store == nil {
		panic("document store cannot be nil")
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &Coordinator{
		store:     store,
		cache:     c,
		validator: NewValidator(),
		config:    withDefaults(cfg),
		logger:    logging.NewLogger(mutationsComponent),
		now:       utcNow,
	}
}

func (c *Coordinator) log(ctx context.Context) *zerolog.Logger {
	l := logging.Scoped(ctx, c.logger, mutationsComponent)
	return &l
}

// utcNow truncates to milliseconds, the resolution the document store keeps.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Create validates and inserts a new product.
func (c *Coordinator) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := c.validator.Struct(in); err != nil {
		return nil, err
	}

	sctx, cancel := storeContext(ctx, c.config.StoreTimeout)
	defer cancel()

	if _, err := c.store.FindBySKU(sctx, in.SKU); err == nil {
		return nil, conflict(in.SKU)
	} else if !isNotFound(err) {
		return nil, storeError("check sku", err)
	}

	p := NewProduct(in, c.now())
	if err := c.store.InsertOne(sctx, &p); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, conflict(in.SKU)
		}
		c.log(ctx).Error().Err(err).Str("sku", in.SKU).Msg("Insert failed")
		return nil, storeError("create product", err)
	}

	c.invalidate(ctx, nil)

	c.log(ctx).Info().
		Str("id", p.ID.Hex()).
		Str("sku", p.SKU).
		Msg("Product created")
	return &p, nil
}

// Update applies the provided fields of u to the product with id.
// updated_at always moves forward, even within one clock tick.
func (c *Coordinator) Update(ctx context.Context, id string, u ProductUpdate) (*Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := c.validator.Struct(u); err != nil {
		return nil, err
	}

	sctx, cancel := storeContext(ctx, c.config.StoreTimeout)
	defer cancel()

	current, err := c.store.FindOne(sctx, oid)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(oid.Hex())
		}
		return nil, storeError("load product", err)
	}

	if u.SKU != nil && *u.SKU != current.SKU {
		owner, err := c.store.FindBySKU(sctx, *u.SKU)
		switch {
		case err == nil && owner.ID != oid:
			return nil, conflict(*u.SKU)
		case err != nil && !isNotFound(err):
			return nil, storeError("check sku", err)
		}
	}

	updatedAt := c.now()
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = current.UpdatedAt.Add(time.Millisecond)
	}

	updated, err := c.store.UpdateOne(sctx, oid, u, updatedAt)
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, notFound(oid.Hex())
		case errors.Is(err, ErrConflict) && u.SKU != nil:
			return nil, conflict(*u.SKU)
		}
		c.log(ctx).Error().Err(err).Str("id", oid.Hex()).Msg("Update failed")
		return nil, storeError("update product", err)
	}

	c.invalidate(ctx, &oid)

	c.log(ctx).Info().
		Str("id", oid.Hex()).
		Int("fields", len(u.Changes())).
		Msg("Product updated")
	return updated, nil
}

// Delete removes the product with id.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	sctx, cancel := storeContext(ctx, c.config.StoreTimeout)
	defer cancel()

	deleted, err := c.store.DeleteOne(sctx, oid)
	if err != nil {
		c.log(ctx).Error().Err(err).Str("id", oid.Hex()).Msg("Delete failed")
		return storeError("delete product", err)
	}
	if !deleted {
		return notFound(oid.Hex())
	}

	c.invalidate(ctx, &oid)

	c.log(ctx).Info().Str("id", oid.Hex()).Msg("Product deleted")
	return nil
}

// invalidate drops every cached listing, the stats summary and, when id is
// set, that product's detail entry. It runs even if the caller has gone
// away, since the store write already happened.
func (c *Coordinator) invalidate(ctx context.Context, id *primitive.ObjectID) {
	ctx = context.WithoutCancel(ctx)

	c.cache.DeletePrefix(ctx, cache.OperationPrefix(OpList))
	cache.CacheInvalidations.WithLabelValues("list").Inc()

	if id != nil {
		c.cache.Delete(ctx, DetailKey(*id).String())
		cache.CacheInvalidations.WithLabelValues("detail").Inc()
	}

	c.cache.Delete(ctx, StatsKey().String())
	cache.CacheInvalidations.WithLabelValues("stats").Inc()
}
