package catalog

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sternrassler/catalog-api/pkg/cache"
)

// Cache operations.
const (
	OpList   = "products_list"
	OpDetail = "product_detail"
	OpStats  = "products_stats"
)

// ListKey returns the cache key of a normalized list request.
func ListKey(p ListParams) cache.Key {
	return cache.Key{
		Operation: OpList,
		Params: map[string]any{
			"page":       p.Page,
			"page_size":  p.PageSize,
			"search":     p.Search,
			"category":   p.Category,
			"min_price":  p.MinPrice,
			"max_price":  p.MaxPrice,
			"min_stock":  p.MinStock,
			"tags":       p.Tags,
			"sort_by":    string(p.SortBy),
			"sort_order": string(p.SortOrder),
		},
	}
}

// DetailKey returns the cache key of a single product.
func DetailKey(id primitive.ObjectID) cache.Key {
	return cache.Key{
		Operation: OpDetail,
		Params:    map[string]any{"product_id": id.Hex()},
	}
}

// StatsKey returns the cache key of the collection summary.
func StatsKey() cache.Key {
	return cache.Key{Operation: OpStats}
}
