package testutil

import (
	"fmt"
	"time"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ProductInput returns a valid create payload with a sku derived from n.
func ProductInput(n int) catalog.ProductInput {
	return catalog.ProductInput{
		Name:         fmt.Sprintf("Product %d", n),
		Description:  fmt.Sprintf("Description of product %d", n),
		Price:        9.99 + float64(n),
		Category:     "Electronics",
		Stock:        Ptr(10 + n),
		SKU:          fmt.Sprintf("ELE-%04d-TST", n),
		Brand:        Ptr("Acme"),
		Rating:       Ptr(4.5),
		ReviewsCount: Ptr(12),
		Tags:         []string{"new", "popular"},
	}
}

// ProductTime returns a distinct, millisecond-aligned creation time for
// fixture n. Later fixtures are newer.
func ProductTime(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
}
