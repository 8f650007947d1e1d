package seed

import (
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

var skuPattern = regexp.MustCompile(`^[A-Z&]{3}-\d{4}-[A-Z]{3}$`)

func TestGenerator_ProductsAreValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator(42, now)
	v := catalog.NewValidator()

	for _, p := range gen.Products(500) {
		in := catalog.ProductInput{
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price,
			Category:     p.Category,
			Stock:        &p.Stock,
			SKU:          p.SKU,
			Brand:        p.Brand,
			Rating:       p.Rating,
			ReviewsCount: p.ReviewsCount,
			Tags:         p.Tags,
		}
		require.NoError(t, v.Struct(in), "generated product %+v", p)

		assert.Regexp(t, skuPattern, p.SKU)
		assert.Contains(t, Categories, p.Category)
		assert.Contains(t, Brands, *p.Brand)
		assert.GreaterOrEqual(t, p.Price, 5.99)
		assert.LessOrEqual(t, p.Price, 9999.99)
		assert.Contains(t, ratingValues, *p.Rating)
		assert.GreaterOrEqual(t, len(p.Tags), 2)
		assert.LessOrEqual(t, len(p.Tags), 5)
		assert.Len(t, slices.Compact(slices.Sorted(slices.Values(p.Tags))), len(p.Tags), "tags must be distinct")
		assert.False(t, p.CreatedAt.After(now))
		assert.True(t, p.CreatedAt.After(now.Add(-366*24*time.Hour)))
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	}
}

func TestGenerator_SKUPrefixFollowsCategory(t *testing.T) {
	prefixes := map[string]string{
		"Electronics":      "ELE",
		"Home & Garden":    "HOM",
		"Books":            "BOO",
		"Toys & Games":     "TOY",
		"Food & Beverages": "FOO",
	}

	gen := NewGenerator(7, time.Now())
	for _, p := range gen.Products(100) {
		if want, ok := prefixes[p.Category]; ok {
			assert.Equal(t, want, p.SKU[:3])
		}
	}
}

func TestGenerator_UniqueSKUs(t *testing.T) {
	gen := NewGenerator(1, time.Now())

	seen := make(map[string]bool)
	for _, p := range gen.Products(20000) {
		require.False(t, seen[p.SKU], "duplicate sku %s", p.SKU)
		seen[p.SKU] = true
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewGenerator(99, now).Products(20)
	b := NewGenerator(99, now).Products(20)

	// ids come from the ObjectID counter, everything else from the seed
	for i := range a {
		b[i].ID = a[i].ID
	}
	assert.Equal(t, a, b)
}

func TestGenerator_RatingsSkewHigh(t *testing.T) {
	gen := NewGenerator(3, time.Now())

	high := 0
	products := gen.Products(2000)
	for _, p := range products {
		if *p.Rating >= 4.5 {
			high++
		}
	}
	// 77% of the weight sits on 4.5 and 5.0
	assert.Greater(t, high, len(products)*2/3)
}

func TestWeighted(t *testing.T) {
	gen := NewGenerator(5, time.Now())

	counts := make([]int, 3)
	for i := 0; i < 1000; i++ {
		counts[weighted(gen.rng, []int{0, 1, 0})]++
	}
	assert.Equal(t, []int{0, 1000, 0}, counts)
}
