package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// searchFields are matched by the free-text search, any of them suffices.
var searchFields = []string{"name", "description", "sku"}

// Filter translates a predicate into a Mongo filter document.
//
// Search text is quoted so regex metacharacters match literally.
func Filter(pred catalog.Predicate) bson.M {
	filter := bson.M{}

	if pred.Search != "" {
		pattern := regexMatch(pred.Search)
		or := make(bson.A, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}

	if pred.Category != "" {
		filter["category"] = pred.Category
	}

	if pred.MinPrice != nil || pred.MaxPrice != nil {
		price := bson.M{}
		if pred.MinPrice != nil {
			price["$gte"] = *pred.MinPrice
		}
		if pred.MaxPrice != nil {
			price["$lte"] = *pred.MaxPrice
		}
		filter["price"] = price
	}

	if pred.MinStock != nil {
		filter["stock"] = bson.M{"$gte": *pred.MinStock}
	}

	if len(pred.Tags) > 0 {
		filter["tags"] = bson.M{"$in": pred.Tags}
	}

	return filter
}

func regexMatch(text string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
}

// SortDoc translates a sort order into a Mongo sort document. An _id
// tiebreaker keeps pagination stable across equal sort values.
func SortDoc(s catalog.Sort) bson.D {
	dir := 1
	if s.Descending() {
		dir = -1
	}
	field := string(s.Field)
	if field == "" {
		field = string(catalog.SortByCreatedAt)
	}
	return bson.D{
		{Key: field, Value: dir},
		{Key: "_id", Value: 1},
	}
}
