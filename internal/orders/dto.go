package orders

import (
	"bytes"
	"encoding/json"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// ItemRequest is one requested product-quantity pair.
type ItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrderRequest is the POST /api/orders body.
type PlaceOrderRequest struct {
	Items           []ItemRequest   `json:"items"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	BillingAddress  json.RawMessage `json:"billingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Notes           *string         `json:"notes"`
}

// Validate checks the request before any mutation happens.
func (r PlaceOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return httpx.Errf(httpx.ErrValidation, "Order must contain at least one item")
	}
	if emptyJSON(r.ShippingAddress) {
		return httpx.Errf(httpx.ErrValidation, "Shipping address is required")
	}
	for _, item := range r.Items {
		if item.ProductID <= 0 {
			return httpx.Errf(httpx.ErrValidation, "Order must contain at least one item")
		}
		if item.Quantity < 1 {
			return httpx.Errf(httpx.ErrValidation, "Item quantity must be at least 1")
		}
	}
	return nil
}

// UpdateStatusRequest is the PUT /api/orders/{id}/status body.
type UpdateStatusRequest struct {
	Status         Status  `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
}

// AdminFilter narrows the admin order listing.
type AdminFilter struct {
	Status Status
	Page   int
	Limit  int
}

func emptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte(`""`))
}
