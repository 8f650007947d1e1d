package catalog

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentStore is the persistence boundary of the catalog. Implementations
// must be safe for concurrent use.
type DocumentStore interface {
	// Find returns the products matching q.Predicate, ordered by q.Sort and
	// sliced by q.Offset/q.Limit.
	Find(ctx context.Context, q Query) ([]Product, error)

	// Count returns the number of products matching pred.
	Count(ctx context.Context, pred Predicate) (int64, error)

	// Aggregate summarizes the whole collection. It returns nil stats when
	// the collection is empty.
	Aggregate(ctx context.Context) (*Stats, error)

	// InsertOne stores a new product. A duplicate sku yields ErrConflict.
	InsertOne(ctx context.Context, p *Product) error

	// FindOne returns the product with id or ErrNotFound.
	FindOne(ctx context.Context, id primitive.ObjectID) (*Product, error)

	// FindBySKU returns the product owning sku or ErrNotFound.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// UpdateOne applies the provided fields and updatedAt, returning the
	// updated product. A missing id yields ErrNotFound, a duplicate sku
	// ErrConflict.
	UpdateOne(ctx context.Context, id primitive.ObjectID, u ProductUpdate, updatedAt time.Time) (*Product, error)

	// DeleteOne removes the product with id, reporting whether one existed.
	DeleteOne(ctx context.Context, id primitive.ObjectID) (bool, error)
}
