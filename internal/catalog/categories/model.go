package categories

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category represents a product category. Soft-deleted categories keep their
// row with isActive=false so historical references stay intact.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Icon        *string   `json:"icon"`
	Image       *string   `json:"image"`
	SortOrder   int       `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductSummary is the trimmed product view embedded in a category detail.
type ProductSummary struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice"`
	Images    []string         `json:"images"`
	Badge     *string          `json:"badge"`
	Stock     int              `json:"stock"`
}

// Detail is a category together with its active products.
type Detail struct {
	Category
	Products []ProductSummary `json:"products"`
}
