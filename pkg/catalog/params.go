package catalog

import (
	"fmt"
	"math"
	"strings"
)

// SortField names a sortable product field.
type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "created_at"
	SortByRating    SortField = "rating"
	SortByStock     SortField = "stock"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether f is one of the sortable fields.
func (f SortField) Valid() bool {
	switch f {
	case SortByName, SortByPrice, SortByCreatedAt, SortByRating, SortByStock:
		return true
	}
	return false
}

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// ListParams are the filter, sort and paging inputs of a List call.
// Zero-valued optional filters (empty string, nil pointer, empty slice)
// are treated as absent.
type ListParams struct {
	Page      int
	PageSize  int
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinStock  *int
	Tags      []string
	SortBy    SortField
	SortOrder SortOrder
}

// DefaultListParams returns the parameters of an unfiltered first page.
func DefaultListParams(pageSize int) ListParams {
	return ListParams{
		Page:      1,
		PageSize:  pageSize,
		SortBy:    SortByCreatedAt,
		SortOrder: SortDesc,
	}
}

// Normalize trims free-text filters, drops blank tags and fills in the
// default sort. Paging values are left as given so Validate can reject them.
func (p ListParams) Normalize() ListParams {
	p.Search = strings.TrimSpace(p.Search)
	p.Category = strings.TrimSpace(p.Category)
	if p.SortBy == "" {
		p.SortBy = SortByCreatedAt
	}
	if p.SortOrder == "" {
		p.SortOrder = SortDesc
	}

	var tags []string
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	return p
}

// Validate checks paging bounds, filter ranges and the sort order.
func (p ListParams) Validate(maxPageSize int) error {
	var fields []FieldError
	pageSizeOK := p.PageSize >= 1 && p.PageSize <= maxPageSize
	switch {
	case p.Page < 1:
		fields = append(fields, FieldError{Field: "page", Message: "must be >= 1"})
	case pageSizeOK && p.Page > math.MaxInt/p.PageSize:
		// the page offset would not fit in an int
		fields = append(fields, FieldError{Field: "page", Message: "is out of range"})
	}
	if !pageSizeOK {
		fields = append(fields, FieldError{Field: "page_size", Message: fmt.Sprintf("must be between 1 and %d", maxPageSize)})
	}
	minOK := checkPrice(&fields, "min_price", p.MinPrice)
	maxOK := checkPrice(&fields, "max_price", p.MaxPrice)
	if minOK && maxOK && *p.MaxPrice < *p.MinPrice {
		fields = append(fields, FieldError{Field: "max_price", Message: "must be greater than or equal to min_price"})
	}
	if p.MinStock != nil && *p.MinStock < 0 {
		fields = append(fields, FieldError{Field: "min_stock", Message: "must be >= 0"})
	}
	if !p.SortBy.Valid() {
		fields = append(fields, FieldError{Field: "sort_by", Message: "must be one of name, price, created_at, rating, stock"})
	}
	if !p.SortOrder.Valid() {
		fields = append(fields, FieldError{Field: "sort_order", Message: "must be asc or desc"})
	}
	if len(fields) > 0 {
		return invalidArgument("invalid list parameters", fields...)
	}
	return nil
}

// checkPrice records a problem with an optional price bound and reports
// whether the bound is set and usable.
func checkPrice(fields *[]FieldError, name string, v *float64) bool {
	switch {
	case v == nil:
		return false
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		*fields = append(*fields, FieldError{Field: name, Message: "must be a finite number"})
		return false
	case *v < 0:
		*fields = append(*fields, FieldError{Field: name, Message: "must be >= 0"})
		return false
	}
	return true
}
