package orders

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/platform/db"
	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/users"
)

// TxRepository exposes the operations order placement runs inside one
// transaction.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID int64) (ProductRecord, error)
	DecrementStock(ctx context.Context, product ProductRecord, quantity int) error
	InsertOrder(ctx context.Context, order Order) (int64, error)
	InsertItems(ctx context.Context, orderID int64, items []Item) error
}

// Repository persists orders in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction. Product
// rows are locked FOR UPDATE inside the callback, so concurrent orders on
// the same product serialize rather than double-spend stock.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *txRepo) GetProductForUpdate(ctx context.Context, productID int64) (ProductRecord, error) {
	query := `
		SELECT id, name, price::text, sale_price::text, stock, images
		FROM products
		WHERE id = $1
		FOR UPDATE`
	var (
		p         ProductRecord
		price     string
		salePrice *string
		images    []byte
	)
	err := r.tx.QueryRow(ctx, query, productID).Scan(&p.ID, &p.Name, &price, &salePrice, &p.Stock, &images)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductRecord{}, httpx.Errf(httpx.ErrNotFound, "Product with ID %d not found", productID)
		}
		return ProductRecord{}, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return ProductRecord{}, err
	}
	if salePrice != nil {
		sp, err := decimal.NewFromString(*salePrice)
		if err != nil {
			return ProductRecord{}, err
		}
		p.SalePrice = &sp
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return ProductRecord{}, err
		}
	}
	return p, nil
}

func (r *txRepo) DecrementStock(ctx context.Context, product ProductRecord, quantity int) error {
	// The stock >= qty guard backs up the row lock so the counter can never
	// go negative even if a caller skips validation.
	tag, err := r.tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		product.ID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &httpx.StockError{Product: product.Name, Available: product.Stock}
	}
	return nil
}

func (r *txRepo) InsertOrder(ctx context.Context, order Order) (int64, error) {
	query := `
		INSERT INTO orders (user_id, order_number, total_amount, subtotal, tax, shipping_cost,
		                    discount, status, payment_method, payment_status, shipping_address,
		                    billing_address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id`
	var id int64
	err := r.tx.QueryRow(ctx, query,
		order.UserID, order.OrderNumber, order.TotalAmount.String(), order.Subtotal.String(),
		order.Tax.String(), order.ShippingCost.String(), order.Discount.String(),
		order.Status, order.PaymentMethod, order.PaymentStatus,
		order.ShippingAddress, order.BillingAddress, order.Notes).Scan(&id)
	return id, err
}

func (r *txRepo) InsertItems(ctx context.Context, orderID int64, items []Item) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, product_image, quantity,
		                         price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	for _, item := range items {
		_, err := r.tx.Exec(ctx, query, orderID, item.ProductID, item.ProductName,
			item.ProductImage, item.Quantity, item.Price.String(), item.TotalPrice.String())
		if err != nil {
			return err
		}
	}
	return nil
}

const orderColumns = `
	id, user_id, order_number, total_amount::text, subtotal::text, tax::text,
	shipping_cost::text, discount::text, status, payment_method, payment_status,
	payment_details, shipping_address, billing_address, tracking_number, notes,
	shipped_at, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                                               Order
		total, subtotal, tax, shippingCost, discountStr string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &total, &subtotal, &tax,
		&shippingCost, &discountStr, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.PaymentDetails, &o.ShippingAddress, &o.BillingAddress, &o.TrackingNumber, &o.Notes,
		&o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, httpx.Errf(httpx.ErrNotFound, "Order not found")
		}
		return Order{}, err
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return Order{}, err
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Order{}, err
	}
	if o.Tax, err = decimal.NewFromString(tax); err != nil {
		return Order{}, err
	}
	if o.ShippingCost, err = decimal.NewFromString(shippingCost); err != nil {
		return Order{}, err
	}
	if o.Discount, err = decimal.NewFromString(discountStr); err != nil {
		return Order{}, err
	}
	o.Items = []Item{}
	return o, nil
}

// Get loads one order with its items and the owning user's summary.
func (r *Repository) Get(ctx context.Context, id int64) (Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return Order{}, err
	}
	if err := r.attachItems(ctx, []*Order{&order}); err != nil {
		return Order{}, err
	}

	var u users.Summary
	err = r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, phone FROM users WHERE id = $1`, order.UserID).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, err
	}
	if err == nil {
		order.User = &u
	}
	return order, nil
}

// ListByUser returns a user's orders newest-first, items included.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Order, len(list))
	for i := range list {
		refs[i] = &list[i]
	}
	return list, r.attachItems(ctx, refs)
}

// ListAll returns all orders newest-first with user summaries, optionally
// filtered by status.
func (r *Repository) ListAll(ctx context.Context, filter AdminFilter) ([]Order, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0
	if filter.Status != "" {
		argCount++
		where = ` WHERE status = $` + strconv.Itoa(argCount)
		args = append(args, filter.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC`
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filter.Limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	offset := (filter.Page - 1) * filter.Limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	refs := make([]*Order, len(list))
	for i := range list {
		refs[i] = &list[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, 0, err
	}
	if err := r.attachUsers(ctx, refs); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateStatus applies a status change in one single-row write.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, trackingNumber *string, shippedAt, deliveredAt *time.Time) error {
	query := `
		UPDATE orders
		SET status          = COALESCE($2, status),
		    tracking_number = COALESCE($3, tracking_number),
		    shipped_at      = COALESCE($4, shipped_at),
		    delivered_at    = COALESCE($5, delivered_at),
		    updated_at      = NOW()
		WHERE id = $1`
	var statusArg *Status
	if status != "" {
		statusArg = &status
	}
	tag, err := r.pool.Exec(ctx, query, id, statusArg, trackingNumber, shippedAt, deliveredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.Errf(httpx.ErrNotFound, "Order not found")
	}
	return nil
}

func (r *Repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]*Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	query := `
		SELECT id, order_id, product_id, product_name, product_image, quantity,
		       price::text, total_price::text, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item              Item
			price, totalPrice string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductImage, &item.Quantity, &price, &totalPrice, &item.CreatedAt); err != nil {
			return err
		}
		if item.Price, err = decimal.NewFromString(price); err != nil {
			return err
		}
		if item.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *Repository) attachUsers(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	seen := map[int64]bool{}
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, first_name, last_name, email, phone FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := map[int64]users.Summary{}
	for rows.Next() {
		var u users.Summary
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone); err != nil {
			return err
		}
		byID[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, o := range orders {
		if u, ok := byID[o.UserID]; ok {
			summary := u
			o.User = &summary
		}
	}
	return nil
}
