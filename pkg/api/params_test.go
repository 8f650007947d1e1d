package api

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

func TestParseListParams(t *testing.T) {
	q, err := url.ParseQuery("page=3&page_size=10&search=lamp&category=Home&min_price=1.5&max_price=99&min_stock=2&tags=sale&tags[]=new&sort_by=price&sort_order=asc")
	require.NoError(t, err)

	p, err := parseListParams(q, 50)
	require.NoError(t, err)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, "lamp", p.Search)
	assert.Equal(t, "Home", p.Category)
	require.NotNil(t, p.MinPrice)
	assert.Equal(t, 1.5, *p.MinPrice)
	require.NotNil(t, p.MaxPrice)
	assert.Equal(t, 99.0, *p.MaxPrice)
	require.NotNil(t, p.MinStock)
	assert.Equal(t, 2, *p.MinStock)
	assert.Equal(t, []string{"sale", "new"}, p.Tags)
	assert.Equal(t, catalog.SortByPrice, p.SortBy)
	assert.Equal(t, catalog.SortAsc, p.SortOrder)
}

func TestParseListParams_Defaults(t *testing.T) {
	p, err := parseListParams(url.Values{}, 25)
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultListParams(25), p)
}

func TestParseListParams_Malformed(t *testing.T) {
	q := url.Values{"page": {"one"}, "max_price": {"NaN-ish"}, "min_stock": {"1.5"}}

	_, err := parseListParams(q, 25)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrInvalidArgument))

	var catErr *catalog.Error
	require.ErrorAs(t, err, &catErr)
	assert.ElementsMatch(t,
		[]catalog.FieldError{
			{Field: "page", Message: "must be an integer"},
			{Field: "max_price", Message: "must be a number"},
			{Field: "min_stock", Message: "must be an integer"},
		},
		catErr.Fields,
	)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&catalog.Error{Kind: catalog.ErrInvalidArgument}, 400},
		{&catalog.Error{Kind: catalog.ErrNotFound}, 404},
		{&catalog.Error{Kind: catalog.ErrConflict}, 409},
		{&catalog.Error{Kind: catalog.ErrUnavailable}, 503},
		{errors.New("other"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
