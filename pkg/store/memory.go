package store

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// Memory is an in-process DocumentStore. It keeps the same filter, sort
// and uniqueness semantics as Mongo and is safe for concurrent use.
type Memory struct {
	products *xsync.MapOf[primitive.ObjectID, catalog.Product]
	skus     *xsync.MapOf[string, primitive.ObjectID]
}

var _ catalog.DocumentStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		products: xsync.NewMapOf[primitive.ObjectID, catalog.Product](),
		skus:     xsync.NewMapOf[string, primitive.ObjectID](),
	}
}

// Find returns a sorted page of matching products. Ties on the sort field
// are broken by id so pages never overlap.
func (m *Memory) Find(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matched []catalog.Product
	m.products.Range(func(_ primitive.ObjectID, p catalog.Product) bool {
		if q.Predicate.Matches(&p) {
			matched = append(matched, p)
		}
		return true
	})

	sort.Slice(matched, func(i, j int) bool {
		if c := q.Sort.Compare(&matched[i], &matched[j]); c != 0 {
			return c < 0
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) < 0
	})

	offset := max(q.Offset, 0)
	if offset >= len(matched) {
		return []catalog.Product{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Limit < end-offset {
		end = offset + q.Limit
	}

	page := make([]catalog.Product, 0, end-offset)
	for _, p := range matched[offset:end] {
		page = append(page, clone(p))
	}
	return page, nil
}

// Count returns the number of products matching pred.
func (m *Memory) Count(ctx context.Context, pred catalog.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	m.products.Range(func(_ primitive.ObjectID, p catalog.Product) bool {
		if pred.Matches(&p) {
			n++
		}
		return true
	})
	return n, nil
}

// Aggregate summarizes the collection, returning nil when it is empty.
// Products without a rating are left out of the rating average.
func (m *Memory) Aggregate(ctx context.Context) (*catalog.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		stats      catalog.Stats
		priceSum   float64
		ratingSum  float64
		ratedCount int
	)
	stats.MinPrice = math.Inf(1)
	stats.MaxPrice = math.Inf(-1)

	m.products.Range(func(_ primitive.ObjectID, p catalog.Product) bool {
		stats.TotalProducts++
		stats.TotalStock += int64(p.Stock)
		priceSum += p.Price
		stats.MinPrice = math.Min(stats.MinPrice, p.Price)
		stats.MaxPrice = math.Max(stats.MaxPrice, p.Price)
		if p.Rating != nil {
			ratingSum += *p.Rating
			ratedCount++
		}
		return true
	})

	if stats.TotalProducts == 0 {
		return nil, nil
	}
	stats.AvgPrice = priceSum / float64(stats.TotalProducts)
	if ratedCount > 0 {
		stats.AvgRating = ratingSum / float64(ratedCount)
	}
	return &stats, nil
}

// InsertOne stores p, rejecting a duplicate sku with ErrConflict.
func (m *Memory) InsertOne(ctx context.Context, p *catalog.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	if _, loaded := m.skus.LoadOrStore(p.SKU, p.ID); loaded {
		return fmt.Errorf("sku %q: %w", p.SKU, catalog.ErrConflict)
	}
	m.products.Store(p.ID, clone(*p))
	return nil
}

// InsertMany stores products in order, stopping at the first conflict.
func (m *Memory) InsertMany(ctx context.Context, products []catalog.Product) error {
	for i := range products {
		if err := m.InsertOne(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindOne returns the product with id.
func (m *Memory) FindOne(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, ok := m.products.Load(id)
	if !ok {
		return nil, catalog.ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

// FindBySKU returns the product owning sku.
func (m *Memory) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	id, ok := m.skus.Load(sku)
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return m.FindOne(ctx, id)
}

// UpdateOne applies u to the product with id.
func (m *Memory) UpdateOne(ctx context.Context, id primitive.ObjectID, u catalog.ProductUpdate, updatedAt time.Time) (*catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reserved := false
	if u.SKU != nil {
		owner, loaded := m.skus.LoadOrStore(*u.SKU, id)
		if loaded && owner != id {
			return nil, fmt.Errorf("sku %q: %w", *u.SKU, catalog.ErrConflict)
		}
		reserved = !loaded
	}

	var (
		previous string
		found    bool
	)
	updated, _ := m.products.Compute(id, func(p catalog.Product, loaded bool) (catalog.Product, bool) {
		if !loaded {
			return p, true
		}
		found = true
		previous = p.SKU
		p = clone(p)
		u.Apply(&p)
		p.UpdatedAt = updatedAt
		return p, false
	})

	if !found {
		if reserved {
			m.releaseSKU(*u.SKU, id)
		}
		return nil, catalog.ErrNotFound
	}
	if u.SKU != nil && previous != *u.SKU {
		m.releaseSKU(previous, id)
	}

	updated = clone(updated)
	return &updated, nil
}

// DeleteOne removes the product with id.
func (m *Memory) DeleteOne(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p, ok := m.products.LoadAndDelete(id)
	if !ok {
		return false, nil
	}
	m.releaseSKU(p.SKU, id)
	return true, nil
}

// CountAll returns the collection size.
func (m *Memory) CountAll(context.Context) (int64, error) {
	return int64(m.products.Size()), nil
}

// DeleteAll empties the store.
func (m *Memory) DeleteAll(context.Context) error {
	m.products.Clear()
	m.skus.Clear()
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

// releaseSKU drops the sku index entry if it still points at id.
func (m *Memory) releaseSKU(sku string, id primitive.ObjectID) {
	m.skus.Compute(sku, func(owner primitive.ObjectID, loaded bool) (primitive.ObjectID, bool) {
		return owner, !loaded || owner == id
	})
}

// clone deep-copies the reference fields of p.
func clone(p catalog.Product) catalog.Product {
	if p.Tags != nil {
		p.Tags = append([]string{}, p.Tags...)
	}
	if p.Brand != nil {
		v := *p.Brand
		p.Brand = &v
	}
	if p.Rating != nil {
		v := *p.Rating
		p.Rating = &v
	}
	if p.ReviewsCount != nil {
		v := *p.ReviewsCount
		p.ReviewsCount = &v
	}
	return p
}
