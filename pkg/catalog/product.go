package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a single catalog item as stored in the products collection.
type Product struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Price        float64            `json:"price" bson:"price"`
	Category     string             `json:"category" bson:"category"`
	Stock        int                `json:"stock" bson:"stock"`
	SKU          string             `json:"sku" bson:"sku"`
	Brand        *string            `json:"brand" bson:"brand,omitempty"`
	Rating       *float64           `json:"rating" bson:"rating,omitempty"`
	ReviewsCount *int               `json:"reviews_count" bson:"reviews_count,omitempty"`
	Tags         []string           `json:"tags" bson:"tags"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProductInput is the payload accepted when creating a product.
type ProductInput struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Description  string   `json:"description" validate:"required,min=1,max=2000"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Category     string   `json:"category" validate:"required,min=1,max=100"`
	Stock        *int     `json:"stock" validate:"required,gte=0"`
	SKU          string   `json:"sku" validate:"required,min=1,max=50"`
	Brand        *string  `json:"brand" validate:"omitnil,max=100"`
	Rating       *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
	ReviewsCount *int     `json:"reviews_count" validate:"omitnil,gte=0"`
	Tags         []string `json:"tags" validate:"omitempty,max=50,dive,min=1,max=50"`
}

// ProductUpdate is a partial update. Nil fields are left untouched.
type ProductUpdate struct {
	Name         *string  `json:"name" validate:"omitnil,min=1,max=200"`
	Description  *string  `json:"description" validate:"omitnil,min=1,max=2000"`
	Price        *float64 `json:"price" validate:"omitnil,gt=0"`
	Category     *string  `json:"category" validate:"omitnil,min=1,max=100"`
	Stock        *int     `json:"stock" validate:"omitnil,gte=0"`
	SKU          *string  `json:"sku" validate:"omitnil,min=1,max=50"`
	Brand        *string  `json:"brand" validate:"omitnil,max=100"`
	Rating       *float64 `json:"rating" validate:"omitnil,gte=0,lte=5"`
	ReviewsCount *int     `json:"reviews_count" validate:"omitnil,gte=0"`
	Tags         []string `json:"tags" validate:"omitempty,max=50,dive,min=1,max=50"`
}

// Stats is the aggregate summary over the whole collection.
type Stats struct {
	TotalProducts int64   `json:"total_products"`
	TotalStock    int64   `json:"total_stock"`
	AvgPrice      float64 `json:"avg_price"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	AvgRating     float64 `json:"avg_rating"`
}

// ProductPage is one page of a List result.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// NewProduct builds a product from a validated input, assigning a fresh id
// and setting both timestamps to now.
func NewProduct(in ProductInput, now time.Time) Product {
	p := Product{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		SKU:          in.SKU,
		Brand:        in.Brand,
		Rating:       in.Rating,
		ReviewsCount: in.ReviewsCount,
		Tags:         append([]string{}, in.Tags...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p
}

// Changes returns the provided fields keyed by their stored field name.
func (u ProductUpdate) Changes() map[string]any {
	changes := make(map[string]any)
	if u.Name != nil {
		changes["name"] = *u.Name
	}
	if u.Description != nil {
		changes["description"] = *u.Description
	}
	if u.Price != nil {
		changes["price"] = *u.Price
	}
	if u.Category != nil {
		changes["category"] = *u.Category
	}
	if u.Stock != nil {
		changes["stock"] = *u.Stock
	}
	if u.SKU != nil {
		changes["sku"] = *u.SKU
	}
	if u.Brand != nil {
		changes["brand"] = *u.Brand
	}
	if u.Rating != nil {
		changes["rating"] = *u.Rating
	}
	if u.ReviewsCount != nil {
		changes["reviews_count"] = *u.ReviewsCount
	}
	if u.Tags != nil {
		changes["tags"] = append([]string{}, u.Tags...)
	}
	return changes
}

// Apply copies the provided fields onto p. UpdatedAt is not touched.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.SKU != nil {
		p.SKU = *u.SKU
	}
	if u.Brand != nil {
		brand := *u.Brand
		p.Brand = &brand
	}
	if u.Rating != nil {
		rating := *u.Rating
		p.Rating = &rating
	}
	if u.ReviewsCount != nil {
		count := *u.ReviewsCount
		p.ReviewsCount = &count
	}
	if u.Tags != nil {
		p.Tags = append([]string{}, u.Tags...)
	}
}

// ParseID validates a hex product id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalidArgument("invalid product id", FieldError{Field: "id", Message: "must be a 24 character hex string"})
	}
	return oid, nil
}
