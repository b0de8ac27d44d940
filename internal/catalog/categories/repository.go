package categories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	GetDetail(ctx context.Context, id int64) (Detail, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, update Update) (Category, error)
	SoftDelete(ctx context.Context, id int64) error
	CountProducts(ctx context.Context, id int64) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, name, slug, description, icon, image, sort_order, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Image, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	return c, err
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE is_active = TRUE ORDER BY sort_order ASC, name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *repository) GetDetail(ctx context.Context, id int64) (Detail, error) {
	category, err := r.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	query := `
		SELECT id, name, slug, price::text, sale_price::text, images, badge, stock
		FROM products
		WHERE category_id = $1 AND is_active = TRUE
		ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return Detail{}, err
	}
	defer rows.Close()

	products := []ProductSummary{}
	for rows.Next() {
		var (
			p         ProductSummary
			price     string
			salePrice *string
			images    []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &price, &salePrice, &images, &p.Badge, &p.Stock); err != nil {
			return Detail{}, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return Detail{}, err
		}
		if salePrice != nil {
			sp, err := decimal.NewFromString(*salePrice)
			if err != nil {
				return Detail{}, err
			}
			p.SalePrice = &sp
		}
		if len(images) > 0 {
			if err := json.Unmarshal(images, &p.Images); err != nil {
				return Detail{}, err
			}
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return Detail{}, err
	}
	return Detail{Category: category, Products: products}, nil
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	query := `
		INSERT INTO categories (name, slug, description, icon, image, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(ctx, query,
		category.Name, category.Slug, category.Description, category.Icon, category.Image, category.SortOrder))
}

func (r *repository) Update(ctx context.Context, id int64, update Update) (Category, error) {
	query := `
		UPDATE categories
		SET name        = COALESCE($2, name),
		    slug        = COALESCE($3, slug),
		    description = COALESCE($4, description),
		    icon        = COALESCE($5, icon),
		    image       = COALESCE($6, image),
		    sort_order  = COALESCE($7, sort_order),
		    is_active   = COALESCE($8, is_active),
		    updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(ctx, query, id,
		update.Name, update.Slug, update.Description, update.Icon, update.Image, update.SortOrder, update.IsActive))
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	return nil
}

func (r *repository) CountProducts(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count)
	return count, err
}
