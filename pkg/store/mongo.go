package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// CollectionName is the products collection.
const CollectionName = "products"

// MongoConfig holds connection settings.
type MongoConfig struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// DefaultMongoConfig returns settings for a local server.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:            "mongodb://localhost:27017",
		Database:       "high_performance_db",
		MaxPoolSize:    50,
		MinPoolSize:    10,
		ConnectTimeout: 5 * time.Second,
	}
}

// Mongo is a DocumentStore backed by a MongoDB collection.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     zerolog.Logger
}

var _ catalog.DocumentStore = (*Mongo)(nil)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	m := NewMongo(client.Database(cfg.Database).Collection(CollectionName))
	m.client = client
	m.logger.Info().
		Str("database", cfg.Database).
		Uint64("max_pool", cfg.MaxPoolSize).
		Msg("Connected to MongoDB")
	return m, nil
}

// NewMongo wraps an existing collection. Close is a no-op for stores
// created this way.
func NewMongo(collection *mongo.Collection) *Mongo {
	if collection == nil {
		panic("mongo collection cannot be nil")
	}
	return &Mongo{
		collection: collection,
		logger:     log.With().Str("component", "store-mongo").Logger(),
	}
}

// Find returns a sorted page of matching products.
func (m *Mongo) Find(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	opts := options.Find().
		SetSort(SortDoc(q.Sort)).
		SetSkip(int64(q.Offset))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := m.collection.Find(ctx, Filter(q.Predicate), opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := make([]catalog.Product, 0, q.Limit)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching pred.
func (m *Mongo) Count(ctx context.Context, pred catalog.Predicate) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, Filter(pred))
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

type statsDoc struct {
	TotalProducts int64    `bson:"total_products"`
	TotalStock    int64    `bson:"total_stock"`
	AvgPrice      float64  `bson:"avg_price"`
	MinPrice      float64  `bson:"min_price"`
	MaxPrice      float64  `bson:"max_price"`
	AvgRating     *float64 `bson:"avg_rating"`
}

// Aggregate summarizes the collection in one $group stage, returning nil
// when the collection is empty.
func (m *Mongo) Aggregate(ctx context.Context) (*catalog.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_products", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_stock", Value: bson.D{{Key: "$sum", Value: "$stock"}}},
			{Key: "avg_price", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "min_price", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "max_price", Value: bson.D{{Key: "$max", Value: "$price"}}},
			{Key: "avg_rating", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("aggregate stats: %w", err)
		}
		return nil, nil
	}

	var doc statsDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	stats := &catalog.Stats{
		TotalProducts: doc.TotalProducts,
		TotalStock:    doc.TotalStock,
		AvgPrice:      doc.AvgPrice,
		MinPrice:      doc.MinPrice,
		MaxPrice:      doc.MaxPrice,
	}
	if doc.AvgRating != nil {
		stats.AvgRating = *doc.AvgRating
	}
	return stats, nil
}

// InsertOne stores p. The unique sku index turns duplicates into
// ErrConflict.
func (m *Mongo) InsertOne(ctx context.Context, p *catalog.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := m.collection.InsertOne(ctx, p); err != nil {
		return classify("insert product", err)
	}
	return nil
}

// InsertMany bulk-inserts products without stopping at duplicates.
func (m *Mongo) InsertMany(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	docs := make([]any, len(products))
	for i := range products {
		if products[i].ID.IsZero() {
			products[i].ID = primitive.NewObjectID()
		}
		docs[i] = products[i]
	}

	_, err := m.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return classify("insert products", err)
	}
	return nil
}

// FindOne returns the product with id.
func (m *Mongo) FindOne(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

// FindBySKU returns the product owning sku.
func (m *Mongo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	return m.findOne(ctx, bson.M{"sku": sku})
}

func (m *Mongo) findOne(ctx context.Context, filter bson.M) (*catalog.Product, error) {
	var p catalog.Product
	if err := m.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, classify("find product", err)
	}
	return &p, nil
}

// UpdateOne sets the provided fields and updated_at, returning the
// document after the update.
func (m *Mongo) UpdateOne(ctx context.Context, id primitive.ObjectID, u catalog.ProductUpdate, updatedAt time.Time) (*catalog.Product, error) {
	set := bson.M{"updated_at": updatedAt}
	for field, value := range u.Changes() {
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p catalog.Product
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		return nil, classify("update product", err)
	}
	return &p, nil
}

// DeleteOne removes the product with id.
func (m *Mongo) DeleteOne(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// CountAll returns the collection size.
func (m *Mongo) CountAll(ctx context.Context) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// DeleteAll empties the collection.
func (m *Mongo) DeleteAll(ctx context.Context) error {
	if _, err := m.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	return nil
}

// Ping checks the server connection.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.collection.Database().Client().Ping(ctx, nil)
}

// Close disconnects the client opened by Connect.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

// classify maps driver errors onto catalog error kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, catalog.ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w: %v", op, catalog.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
