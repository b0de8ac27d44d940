package products

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	IncrementViews(ctx context.Context, id int64) error
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, update Update) (Product, error)
	SoftDelete(ctx context.Context, id int64) error
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productSelect = `
	SELECT p.id, p.name, p.slug, p.description, p.price::text, p.sale_price::text, p.sku,
	       p.stock, p.category_id, p.images, p.badge, p.is_active, p.is_featured, p.views,
	       p.created_at, p.updated_at,
	       c.id, c.name, c.slug, c.icon
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p         Product
		price     string
		salePrice *string
		images    []byte
		category  CategoryRef
	)
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &price, &salePrice, &p.SKU,
		&p.Stock, &p.CategoryID, &images, &p.Badge, &p.IsActive, &p.IsFeatured, &p.Views,
		&p.CreatedAt, &p.UpdatedAt,
		&category.ID, &category.Name, &category.Slug, &category.Icon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, httpx.Errf(httpx.ErrNotFound, "Product not found")
		}
		return Product{}, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return Product{}, err
	}
	if salePrice != nil {
		sp, err := decimal.NewFromString(*salePrice)
		if err != nil {
			return Product{}, err
		}
		p.SalePrice = &sp
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return Product{}, err
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Category = &category
	return p, nil
}

// List uses a dynamic query due to filter complexity.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE p.is_active = TRUE`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		n := strconv.Itoa(argCount)
		where += ` AND (p.name ILIKE $` + n + ` OR p.description ILIKE $` + n + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CategoryID > 0 {
		argCount++
		where += ` AND p.category_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.CategoryID)
	}
	if filters.MinPrice != nil {
		argCount++
		where += ` AND p.price >= $` + strconv.Itoa(argCount)
		args = append(args, filters.MinPrice.String())
	}
	if filters.MaxPrice != nil {
		argCount++
		where += ` AND p.price <= $` + strconv.Itoa(argCount)
		args = append(args, filters.MaxPrice.String())
	}
	if filters.Badge != "" {
		argCount++
		where += ` AND p.badge = $` + strconv.Itoa(argCount)
		args = append(args, filters.Badge)
	}
	if filters.IsFeatured != nil {
		argCount++
		where += ` AND p.is_featured = $` + strconv.Itoa(argCount)
		args = append(args, *filters.IsFeatured)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products p` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := productSelect + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.Order)

	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.Limit)

	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	offset := (filters.Page - 1) * filters.Limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
}

func (r *repository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return Product{}, err
	}
	query := `
		WITH inserted AS (
			INSERT INTO products (name, slug, description, price, sale_price, sku, stock,
			                      category_id, images, badge, is_active, is_featured, views,
			                      created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, $11, 0, NOW(), NOW())
			RETURNING *
		)` + selectFromInserted
	var salePrice *string
	if product.SalePrice != nil {
		s := product.SalePrice.String()
		salePrice = &s
	}
	return scanProduct(r.pool.QueryRow(ctx, query,
		product.Name, product.Slug, product.Description, product.Price.String(), salePrice,
		product.SKU, product.Stock, product.CategoryID, images, product.Badge, product.IsFeatured))
}

func (r *repository) Update(ctx context.Context, id int64, update Update) (Product, error) {
	var images []byte
	if update.Images != nil {
		encoded, err := json.Marshal(update.Images)
		if err != nil {
			return Product{}, err
		}
		images = encoded
	}
	var price, salePrice *string
	if update.Price != nil {
		s := update.Price.String()
		price = &s
	}
	if update.SalePrice != nil {
		s := update.SalePrice.String()
		salePrice = &s
	}
	query := `
		WITH inserted AS (
			UPDATE products
			SET name        = COALESCE($2, name),
			    slug        = COALESCE($3, slug),
			    description = COALESCE($4, description),
			    price       = COALESCE($5::numeric, price),
			    sale_price  = COALESCE($6::numeric, sale_price),
			    sku         = COALESCE($7, sku),
			    stock       = COALESCE($8, stock),
			    category_id = COALESCE($9, category_id),
			    images      = COALESCE($10, images),
			    badge       = COALESCE($11, badge),
			    is_active   = COALESCE($12, is_active),
			    is_featured = COALESCE($13, is_featured),
			    updated_at  = NOW()
			WHERE id = $1
			RETURNING *
		)` + selectFromInserted
	return scanProduct(r.pool.QueryRow(ctx, query, id,
		update.Name, update.Slug, update.Description, price, salePrice, update.SKU,
		update.Stock, update.CategoryID, images, update.Badge, update.IsActive, update.IsFeatured))
}

const selectFromInserted = `
	SELECT p.id, p.name, p.slug, p.description, p.price::text, p.sale_price::text, p.sku,
	       p.stock, p.category_id, p.images, p.badge, p.is_active, p.is_featured, p.views,
	       p.created_at, p.updated_at,
	       c.id, c.name, c.slug, c.icon
	FROM inserted p
	JOIN categories c ON c.id = p.category_id`

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.Errf(httpx.ErrNotFound, "Product not found")
	}
	return nil
}

func (r *repository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func sortOrder(sortBy, dir string) string {
	order := "DESC"
	if dir == "asc" || dir == "ASC" {
		order = "ASC"
	}
	switch sortBy {
	case "name":
		return "p.name " + order
	case "price":
		return "p.price " + order
	case "views":
		return "p.views " + order
	case "stock":
		return "p.stock " + order
	default:
		return "p.created_at " + order
	}
}
