package products

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/internal/shared"
)

func TestFiltersFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/products?search=charger&categoryId=3&minPrice=10.50&maxPrice=99.99&badge=Sale&isFeatured=true&sortBy=price&order=asc&page=2&limit=10", nil)
	f := FiltersFromQuery(r)

	require.Equal(t, "charger", f.Search)
	require.Equal(t, int64(3), f.CategoryID)
	require.NotNil(t, f.MinPrice)
	require.Equal(t, "10.5", f.MinPrice.String())
	require.NotNil(t, f.MaxPrice)
	require.Equal(t, "Sale", f.Badge)
	require.NotNil(t, f.IsFeatured)
	require.True(t, *f.IsFeatured)
	require.Equal(t, "price", f.SortBy)
	require.Equal(t, "asc", f.Order)
	require.Equal(t, 2, f.Page)
	require.Equal(t, 10, f.Limit)
}

func TestFiltersFromQueryDefaults(t *testing.T) {
	f := FiltersFromQuery(httptest.NewRequest("GET", "/api/products", nil))
	require.Equal(t, shared.DefaultPage, f.Page)
	require.Equal(t, shared.DefaultLimit, f.Limit)
	require.Nil(t, f.MinPrice)
	require.Nil(t, f.IsFeatured)

	// Malformed values fall back instead of erroring.
	f = FiltersFromQuery(httptest.NewRequest("GET", "/api/products?minPrice=abc&page=-2&limit=9999&categoryId=x", nil))
	require.Nil(t, f.MinPrice)
	require.Equal(t, shared.DefaultPage, f.Page)
	require.Equal(t, shared.MaxLimit, f.Limit)
	require.Zero(t, f.CategoryID)
}

func TestSortOrderWhitelist(t *testing.T) {
	require.Equal(t, "p.price ASC", sortOrder("price", "asc"))
	require.Equal(t, "p.created_at DESC", sortOrder("createdAt", "DESC"))
	// Unknown columns cannot reach the query.
	require.Equal(t, "p.created_at DESC", sortOrder("; DROP TABLE products", ""))
}
