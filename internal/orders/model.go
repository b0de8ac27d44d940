package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/users"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// ValidStatus reports whether s is one of the known order statuses.
// Any transition between known statuses is allowed.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Order is an order header with its line items. Monetary fields are
// decimals; tax, shippingCost and discount are recorded but currently
// always zero.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	OrderNumber     string          `json:"orderNumber"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	Discount        decimal.Decimal `json:"discount"`
	Status          Status          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentDetails  json.RawMessage `json:"paymentDetails,omitempty"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	BillingAddress  json.RawMessage `json:"billingAddress"`
	TrackingNumber  *string         `json:"trackingNumber"`
	Notes           *string         `json:"notes"`
	ShippedAt       *time.Time      `json:"shippedAt"`
	DeliveredAt     *time.Time      `json:"deliveredAt"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Items []Item         `json:"items"`
	User  *users.Summary `json:"user,omitempty"`
}

// Item is one product-quantity line within an order. Product name, image
// and price are snapshotted at order time and never change afterwards.
type Item struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"orderId"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage *string         `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ProductRecord is the slice of catalog state order placement reads and
// mutates. It is loaded under a row lock so concurrent orders serialize on
// the same product.
type ProductRecord struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	Stock     int
	Images    []string
}

// UnitPrice returns the effective selling price: salePrice when present,
// else price.
func (p ProductRecord) UnitPrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
