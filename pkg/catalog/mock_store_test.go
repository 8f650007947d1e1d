package catalog_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// mockStore is a testify mock of catalog.DocumentStore.
type mockStore struct {
	mock.Mock
}

var _ catalog.DocumentStore = (*mockStore)(nil)

func (m *mockStore) Find(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, pred catalog.Predicate) (int64, error) {
	args := m.Called(ctx, pred)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) Aggregate(ctx context.Context) (*catalog.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*catalog.Stats)
	return stats, args.Error(1)
}

func (m *mockStore) InsertOne(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockStore) FindOne(ctx context.Context, id primitive.ObjectID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *mockStore) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *mockStore) UpdateOne(ctx context.Context, id primitive.ObjectID, u catalog.ProductUpdate, updatedAt time.Time) (*catalog.Product, error) {
	args := m.Called(ctx, id, u, updatedAt)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *mockStore) DeleteOne(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
