package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sternrassler/catalog-api/internal/testutil"
	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/logging"
)

func TestNewCoordinator_Panic(t *testing.T) {
	assert.Panics(t, func() {
		catalog.NewCoordinator(nil, nil, catalog.DefaultConfig())
	})
}

func TestCoordinator_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := testutil.ProductInput(1)
	p, err := f.coord.Create(ctx, in)
	require.NoError(t, err)

	assert.False(t, p.ID.IsZero())
	assert.Equal(t, in.SKU, p.SKU)
	assert.Equal(t, *in.Stock, p.Stock)
	assert.Equal(t, time.UTC, p.CreatedAt.Location())
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
	assert.Equal(t, p.CreatedAt, p.CreatedAt.Truncate(time.Millisecond))

	stored, err := f.store.FindOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, stored.Name)

	assert.Equal(t, []string{cache.OperationPrefix(catalog.OpList)}, f.cache.DeletedPrefixes())
	assert.Equal(t, []string{catalog.StatsKey().String()}, f.cache.Deleted())
}

func TestCoordinator_CreateDuplicateSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.Create(ctx, testutil.ProductInput(1))
	require.NoError(t, err)
	f.cache.Reset()

	_, err = f.coord.Create(ctx, testutil.ProductInput(1))
	assert.ErrorIs(t, err, catalog.ErrConflict)
	assert.Empty(t, f.cache.DeletedPrefixes(), "nothing written, nothing to invalidate")
}

func TestCoordinator_CreateRaceOnSKU(t *testing.T) {
	// the sku check passes but the unique index rejects the insert
	st := new(mockStore)
	st.On("FindBySKU", mock.Anything, "ELE-0001-TST").Return(nil, catalog.ErrNotFound)
	st.On("InsertOne", mock.Anything, mock.Anything).Return(catalog.ErrConflict)
	coord := catalog.NewCoordinator(st, nil, catalog.DefaultConfig())

	_, err := coord.Create(context.Background(), testutil.ProductInput(1))
	assert.ErrorIs(t, err, catalog.ErrConflict)
	st.AssertExpectations(t)
}

func TestCoordinator_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*catalog.ProductInput)
		field  string
	}{
		{"missing name", func(in *catalog.ProductInput) { in.Name = "" }, "name"},
		{"zero price", func(in *catalog.ProductInput) { in.Price = 0 }, "price"},
		{"negative price", func(in *catalog.ProductInput) { in.Price = -1 }, "price"},
		{"missing stock", func(in *catalog.ProductInput) { in.Stock = nil }, "stock"},
		{"negative stock", func(in *catalog.ProductInput) { in.Stock = testutil.Ptr(-1) }, "stock"},
		{"rating above five", func(in *catalog.ProductInput) { in.Rating = testutil.Ptr(5.5) }, "rating"},
		{"long sku", func(in *catalog.ProductInput) { in.SKU = string(make([]byte, 51)) }, "sku"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(mockStore)
			coord := catalog.NewCoordinator(st, nil, catalog.DefaultConfig())

			in := testutil.ProductInput(1)
			tt.mutate(&in)

			_, err := coord.Create(context.Background(), in)
			require.ErrorIs(t, err, catalog.ErrInvalidArgument)

			var catErr *catalog.Error
			require.True(t, errors.As(err, &catErr))
			var fields []string
			for _, fe := range catErr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
			st.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
		})
	}
}

func TestCoordinator_UpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	frozen := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	catalog.SetClock(f.coord, func() time.Time { return frozen })

	created, err := f.coord.Create(ctx, testutil.ProductInput(1))
	require.NoError(t, err)
	f.cache.Reset()

	updated, err := f.coord.Update(ctx, created.ID.Hex(), catalog.ProductUpdate{
		Price: testutil.Ptr(19.5),
		Tags:  []string{"clearance"},
	})
	require.NoError(t, err)

	assert.Equal(t, 19.5, updated.Price)
	assert.Equal(t, []string{"clearance"}, updated.Tags)

	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, created.Stock, updated.Stock)
	assert.Equal(t, created.SKU, updated.SKU)
	assert.Equal(t, created.Brand, updated.Brand)
	assert.Equal(t, created.Rating, updated.Rating)
	assert.Equal(t, created.ReviewsCount, updated.ReviewsCount)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// the clock did not move, updated_at still has to
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	again, err := f.coord.Update(ctx, created.ID.Hex(), catalog.ProductUpdate{})
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
}

func TestCoordinator_UpdateInvalidates(t *testing.T) {
	f := newFixture(t)
	products := f.seed(t, 1)
	ctx := context.Background()
	id := products[0].ID

	_, err := f.engine.Get(ctx, id.Hex())
	require.NoError(t, err)

	_, err = f.coord.Update(ctx, id.Hex(), catalog.ProductUpdate{Name: testutil.Ptr("Renamed")})
	require.NoError(t, err)

	assert.Contains(t, f.cache.DeletedPrefixes(), cache.OperationPrefix(catalog.OpList))
	assert.Contains(t, f.cache.Deleted(), catalog.DetailKey(id).String())
	assert.Contains(t, f.cache.Deleted(), catalog.StatsKey().String())

	got, err := f.engine.Get(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestCoordinator_UpdateErrors(t *testing.T) {
	f := newFixture(t)
	products := f.seed(t, 2)
	ctx := context.Background()

	_, err := f.coord.Update(ctx, "not-an-id", catalog.ProductUpdate{})
	assert.ErrorIs(t, err, catalog.ErrInvalidArgument)

	_, err = f.coord.Update(ctx, primitive.NewObjectID().Hex(), catalog.ProductUpdate{Name: testutil.Ptr("x")})
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = f.coord.Update(ctx, products[0].ID.Hex(), catalog.ProductUpdate{Price: testutil.Ptr(-5.0)})
	assert.ErrorIs(t, err, catalog.ErrInvalidArgument)

	_, err = f.coord.Update(ctx, products[0].ID.Hex(), catalog.ProductUpdate{Name: testutil.Ptr("")})
	assert.ErrorIs(t, err, catalog.ErrInvalidArgument)

	_, err = f.coord.Update(ctx, products[0].ID.Hex(), catalog.ProductUpdate{SKU: testutil.Ptr(products[1].SKU)})
	assert.ErrorIs(t, err, catalog.ErrConflict)

	// keeping its own sku is fine
	_, err = f.coord.Update(ctx, products[0].ID.Hex(), catalog.ProductUpdate{SKU: testutil.Ptr(products[0].SKU)})
	assert.NoError(t, err)
}

func TestCoordinator_Delete(t *testing.T) {
	f := newFixture(t)
	products := f.seed(t, 2)
	ctx := context.Background()
	id := products[0].ID

	require.NoError(t, f.coord.Delete(ctx, id.Hex()))

	assert.Contains(t, f.cache.DeletedPrefixes(), cache.OperationPrefix(catalog.OpList))
	assert.Contains(t, f.cache.Deleted(), catalog.DetailKey(id).String())

	err := f.coord.Delete(ctx, id.Hex())
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = f.coord.Delete(ctx, "123")
	assert.ErrorIs(t, err, catalog.ErrInvalidArgument)

	page, err := f.engine.List(ctx, catalog.DefaultListParams(10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestCoordinator_DeleteStoreFailure(t *testing.T) {
	st := new(mockStore)
	st.On("DeleteOne", mock.Anything, mock.Anything).Return(false, errors.New("no reachable servers"))
	spy := testutil.NewSpyCache(nil)
	coord := catalog.NewCoordinator(st, spy, catalog.DefaultConfig())

	err := coord.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
	assert.Empty(t, spy.DeletedPrefixes())
	st.AssertExpectations(t)
}

func TestCoordinator_InvalidatesAfterCallerGone(t *testing.T) {
	f := newFixture(t)
	products := f.seed(t, 1)

	params := catalog.DefaultListParams(10)
	_, err := f.engine.List(context.Background(), params)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = f.coord.Update(ctx, products[0].ID.Hex(), catalog.ProductUpdate{Stock: testutil.Ptr(0)})
	require.NoError(t, err)
	cancel()

	f.cache.Reset()
	page, err := f.engine.List(context.Background(), params)
	require.NoError(t, err)
	assert.Zero(t, f.cache.Hits())
	assert.Equal(t, 0, page.Products[0].Stock)
}

func TestCoordinator_FailureLogCarriesRequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	logging.Setup(logging.Config{Level: logging.LevelInfo, Output: buf})
	t.Cleanup(func() { logging.Setup(logging.DefaultConfig()) })

	st := new(mockStore)
	st.On("DeleteOne", mock.Anything, mock.Anything).Return(false, errors.New("connection reset"))
	coord := catalog.NewCoordinator(st, nil, catalog.DefaultConfig())

	ctx := logging.WithRequestID(context.Background(), "req-43")
	err := coord.Delete(ctx, primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, catalog.ErrUnavailable)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "req-43", entry["request_id"])
	assert.Equal(t, "catalog-mutations", entry["component"])
}
