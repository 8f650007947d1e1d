package catalog

import (
	"strings"

	"github.com/Sternrassler/catalog-api/pkg/pagination"
)

// Predicate is the conjunction of filter constraints of a query.
type Predicate struct {
	// Search matches case-insensitively as a substring of name,
	// description or sku (any of them).
	Search string

	// Category is an exact match.
	Category string

	// MinPrice and MaxPrice are inclusive bounds.
	MinPrice *float64
	MaxPrice *float64

	// MinStock is an inclusive lower bound.
	MinStock *int

	// Tags matches products sharing at least one tag.
	Tags []string
}

// Sort is the ordering of a query.
type Sort struct {
	Field SortField
	Order SortOrder
}

// Descending reports whether the sort order is desc.
func (s Sort) Descending() bool {
	return s.Order == SortDesc
}

// Query is a store-agnostic description of a filtered, sorted page.
type Query struct {
	Predicate Predicate
	Sort      Sort
	Offset    int
	Limit     int
}

// BuildQuery translates validated list parameters into a Query.
func BuildQuery(p ListParams) Query {
	pred := Predicate{
		Search:   p.Search,
		Category: p.Category,
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
		MinStock: p.MinStock,
	}
	if len(p.Tags) > 0 {
		pred.Tags = append([]string(nil), p.Tags...)
	}
	return Query{
		Predicate: pred,
		Sort:      Sort{Field: p.SortBy, Order: p.SortOrder},
		Offset:    pagination.Offset(p.Page, p.PageSize),
		Limit:     p.PageSize,
	}
}

// Matches evaluates the predicate against a product in memory.
func (pr Predicate) Matches(p *Product) bool {
	if pr.Search != "" {
		needle := strings.ToLower(pr.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			return false
		}
	}
	if pr.Category != "" && p.Category != pr.Category {
		return false
	}
	if pr.MinPrice != nil && p.Price < *pr.MinPrice {
		return false
	}
	if pr.MaxPrice != nil && p.Price > *pr.MaxPrice {
		return false
	}
	if pr.MinStock != nil && p.Stock < *pr.MinStock {
		return false
	}
	if len(pr.Tags) > 0 && !intersects(pr.Tags, p.Tags) {
		return false
	}
	return true
}

func intersects(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

// Compare orders a before b under s, returning -1, 0 or 1. Missing ratings
// sort lowest. Ties are not broken here; stores add an id tiebreaker.
func (s Sort) Compare(a, b *Product) int {
	var c int
	switch s.Field {
	case SortByName:
		c = strings.Compare(a.Name, b.Name)
	case SortByPrice:
		c = compareFloat(a.Price, b.Price)
	case SortByStock:
		c = compareInt(a.Stock, b.Stock)
	case SortByRating:
		c = compareRating(a.Rating, b.Rating)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if s.Descending() {
		return -c
	}
	return c
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareRating(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareFloat(*a, *b)
}
