package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Badge values accepted on a product.
var knownBadges = map[string]bool{
	"Hot":      true,
	"Sale":     true,
	"New":      true,
	"Featured": true,
}

// CategoryRef is the trimmed category view embedded in product payloads.
type CategoryRef struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Slug string  `json:"slug"`
	Icon *string `json:"icon,omitempty"`
}

// Product is a catalog item. salePrice, when present, overrides price at
// order time. Soft-deleted products keep their row with isActive=false.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	SKU         *string          `json:"sku"`
	Stock       int              `json:"stock"`
	CategoryID  int64            `json:"categoryId"`
	Images      []string         `json:"images"`
	Badge       *string          `json:"badge"`
	IsActive    bool             `json:"isActive"`
	IsFeatured  bool             `json:"isFeatured"`
	Views       int64            `json:"views"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`

	Category *CategoryRef `json:"category,omitempty"`
}
