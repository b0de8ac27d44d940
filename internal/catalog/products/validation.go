package products

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

func validate(p Product) error {
	name := strings.TrimSpace(p.Name)
	if name == "" || p.CategoryID <= 0 {
		return httpx.Errf(httpx.ErrValidation, "Please provide name, price, and category")
	}
	if len(name) < 2 || len(name) > 200 {
		return httpx.Errf(httpx.ErrValidation, "Product name must be between 2 and 200 characters")
	}
	if p.Price.IsNegative() {
		return httpx.Errf(httpx.ErrValidation, "Price must not be negative")
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		return httpx.Errf(httpx.ErrValidation, "Sale price must not be negative")
	}
	if p.Stock < 0 {
		return httpx.Errf(httpx.ErrValidation, "Stock must not be negative")
	}
	if p.Badge != nil && !knownBadges[*p.Badge] {
		return httpx.Errf(httpx.ErrValidation, "Unknown badge %q", *p.Badge)
	}
	return nil
}

func validateUpdate(u Update) error {
	if u.Price != nil && u.Price.IsNegative() {
		return httpx.Errf(httpx.ErrValidation, "Price must not be negative")
	}
	if u.SalePrice != nil && u.SalePrice.IsNegative() {
		return httpx.Errf(httpx.ErrValidation, "Sale price must not be negative")
	}
	if u.Stock != nil && *u.Stock < 0 {
		return httpx.Errf(httpx.ErrValidation, "Stock must not be negative")
	}
	if u.Badge != nil && !knownBadges[*u.Badge] {
		return httpx.Errf(httpx.ErrValidation, "Unknown badge %q", *u.Badge)
	}
	return nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
