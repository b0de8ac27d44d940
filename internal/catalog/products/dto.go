package products

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/shared"
)

// ListFilters narrows the public product listing.
type ListFilters struct {
	Search     string
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Badge      string
	IsFeatured *bool
	SortBy     string
	Order      string
	Page       int
	Limit      int
}

// FiltersFromQuery parses listing filters from the request query string.
// Unknown or malformed values fall back to defaults rather than erroring.
func FiltersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{
		Search: strings.TrimSpace(q.Get("search")),
		Badge:  strings.TrimSpace(q.Get("badge")),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
		Page:   shared.DefaultPage,
		Limit:  shared.DefaultLimit,
	}
	if id, err := strconv.ParseInt(q.Get("categoryId"), 10, 64); err == nil && id > 0 {
		f.CategoryID = id
	}
	if v, err := decimal.NewFromString(q.Get("minPrice")); err == nil {
		f.MinPrice = &v
	}
	if v, err := decimal.NewFromString(q.Get("maxPrice")); err == nil {
		f.MaxPrice = &v
	}
	if q.Has("isFeatured") {
		featured := q.Get("isFeatured") == "true"
		f.IsFeatured = &featured
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		f.Limit = shared.ClampLimit(limit)
	}
	return f
}

type createRequest struct {
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	SKU         *string          `json:"sku"`
	Stock       int              `json:"stock"`
	CategoryID  int64            `json:"categoryId"`
	Images      []string         `json:"images"`
	Badge       *string          `json:"badge"`
	IsFeatured  bool             `json:"isFeatured"`
}

type updateRequest struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	SKU         *string          `json:"sku"`
	Stock       *int             `json:"stock"`
	CategoryID  *int64           `json:"categoryId"`
	Images      []string         `json:"images"`
	Badge       *string          `json:"badge"`
	IsActive    *bool            `json:"isActive"`
	IsFeatured  *bool            `json:"isFeatured"`
}

// Update carries a partial product change; nil fields are left untouched.
type Update struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *decimal.Decimal
	SalePrice   *decimal.Decimal
	SKU         *string
	Stock       *int
	CategoryID  *int64
	Images      []string
	Badge       *string
	IsActive    *bool
	IsFeatured  *bool
}
