package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// parseListParams reads list parameters from the query string. Absent
// values fall back to the first page of defaultPageSize items, newest
// first. Malformed numbers are reported per field.
func parseListParams(q url.Values, defaultPageSize int) (catalog.ListParams, error) {
	p := catalog.DefaultListParams(defaultPageSize)
	var fields []catalog.FieldError

	intParam := func(name string, dst *int) {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, catalog.FieldError{Field: name, Message: "must be an integer"})
			return
		}
		*dst = v
	}
	optInt := func(name string) *int {
		if strings.TrimSpace(q.Get(name)) == "" {
			return nil
		}
		var v int
		before := len(fields)
		intParam(name, &v)
		if len(fields) > before {
			return nil
		}
		return &v
	}
	optFloat := func(name string) *float64 {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields = append(fields, catalog.FieldError{Field: name, Message: "must be a number"})
			return nil
		}
		return &v
	}

	intParam("page", &p.Page)
	intParam("page_size", &p.PageSize)
	p.MinPrice = optFloat("min_price")
	p.MaxPrice = optFloat("max_price")
	p.MinStock = optInt("min_stock")

	p.Search = q.Get("search")
	p.Category = q.Get("category")
	if v := q.Get("sort_by"); v != "" {
		p.SortBy = catalog.SortField(v)
	}
	if v := q.Get("sort_order"); v != "" {
		p.SortOrder = catalog.SortOrder(v)
	}

	p.Tags = append(append([]string(nil), q["tags"]...), q["tags[]"]...)

	if len(fields) > 0 {
		return p, invalid("invalid query parameters", fields...)
	}
	return p, nil
}
