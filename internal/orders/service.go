package orders

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
)

// DefaultPaymentMethod is recorded when the request omits one.
const DefaultPaymentMethod = "credit_card"

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id int64) (Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	ListAll(ctx context.Context, filter AdminFilter) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status Status, trackingNumber *string, shippedAt, deliveredAt *time.Time) error
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort abstracts order counters.
type MetricsPort interface {
	OrderPlaced()
}

// Service coordinates order placement and fulfillment.
type Service struct {
	logger  *slog.Logger
	repo    RepositoryPort
	audit   AuditPort
	metrics MetricsPort
	now     func() time.Time
}

func NewService(logger *slog.Logger, repo RepositoryPort, audit AuditPort, metrics MetricsPort) *Service {
	return &Service{logger: logger, repo: repo, audit: audit, metrics: metrics, now: time.Now}
}

// Place creates an order for userID. All product lookups, stock checks,
// stock decrements and row inserts run in one transaction: a failure on any
// item leaves no partial writes behind.
func (s *Service) Place(ctx context.Context, userID int64, req PlaceOrderRequest) (Order, error) {
	if err := req.Validate(); err != nil {
		return Order{}, err
	}

	billing := req.BillingAddress
	if emptyJSON(billing) {
		billing = req.ShippingAddress
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	var orderID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		subtotal := decimal.Zero
		items := make([]Item, 0, len(req.Items))
		products := make([]ProductRecord, 0, len(req.Items))

		// Pass one: lock and validate every product, snapshotting prices.
		for _, line := range req.Items {
			product, err := tx.GetProductForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < line.Quantity {
				return &httpx.StockError{Product: product.Name, Available: product.Stock}
			}
			price := product.UnitPrice()
			lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)

			var image *string
			if len(product.Images) > 0 {
				image = &product.Images[0]
			}
			items = append(items, Item{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: image,
				Quantity:     line.Quantity,
				Price:        price,
				TotalPrice:   lineTotal,
			})
			products = append(products, product)
		}

		// Pass two: every item validated, apply the decrements.
		for i, line := range req.Items {
			if err := tx.DecrementStock(ctx, products[i], line.Quantity); err != nil {
				return err
			}
		}

		// Tax, shipping and discounts are recorded but not yet computed.
		tax := decimal.Zero
		shippingCost := decimal.Zero
		discount := decimal.Zero
		totalAmount := subtotal.Add(tax).Add(shippingCost).Sub(discount)

		id, err := tx.InsertOrder(ctx, Order{
			UserID:          userID,
			OrderNumber:     s.orderNumber(userID),
			TotalAmount:     totalAmount,
			Subtotal:        subtotal,
			Tax:             tax,
			ShippingCost:    shippingCost,
			Discount:        discount,
			Status:          StatusPending,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   PaymentPending,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  billing,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}
		orderID = id
		return tx.InsertItems(ctx, id, items)
	})
	if err != nil {
		return Order{}, err
	}

	if s.metrics != nil {
		s.metrics.OrderPlaced()
	}
	s.logger.Info("order placed", slog.Int64("order_id", orderID), slog.Int64("user_id", userID))
	return s.repo.Get(ctx, orderID)
}

func (s *Service) orderNumber(userID int64) string {
	return fmt.Sprintf("ORD-%d-%d", s.now().UnixMilli(), userID)
}

// OrdersFor returns a user's own orders, newest first.
func (s *Service) OrdersFor(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one order. Customers may only read their own orders; admins
// may read any.
func (s *Service) Get(ctx context.Context, identity shared.Identity, id int64) (Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if order.UserID != identity.ID && !identity.IsAdmin() {
		return Order{}, httpx.Errf(httpx.ErrForbidden, "Not authorized to access this order")
	}
	return order, nil
}

// ListAll returns every order for the admin view.
func (s *Service) ListAll(ctx context.Context, filter AdminFilter) ([]Order, shared.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = shared.DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = shared.DefaultLimit
	}
	filter.Limit = shared.ClampLimit(filter.Limit)

	list, total, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(filter.Page, filter.Limit, total), nil
}

// UpdateStatus applies an admin status change. shippedAt and deliveredAt are
// set the first time the order reaches that status and never overwritten;
// re-sending the same status is a harmless no-op on the timestamp.
func (s *Service) UpdateStatus(ctx context.Context, actor shared.Identity, id int64, req UpdateStatusRequest) (Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		return Order{}, httpx.Errf(httpx.ErrValidation, "Invalid order status")
	}

	var shippedAt, deliveredAt *time.Time
	if req.Status == StatusShipped && order.ShippedAt == nil {
		now := s.now()
		shippedAt = &now
	}
	if req.Status == StatusDelivered && order.DeliveredAt == nil {
		now := s.now()
		deliveredAt = &now
	}
	tracking := req.TrackingNumber
	if tracking != nil && *tracking == "" {
		tracking = nil
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, tracking, shippedAt, deliveredAt); err != nil {
		return Order{}, err
	}

	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "order.status_update",
			Entity:   "order",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"status": req.Status},
		}); err != nil {
			s.logger.Warn("audit order status", slog.Any("error", err))
		}
	}
	return s.repo.Get(ctx, id)
}
