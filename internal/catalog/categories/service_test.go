package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

type memoryRepo struct {
	categories map[int64]Category
	products   map[int64]int
	nextID     int64
	deleted    []int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{categories: map[int64]Category{}, products: map[int64]int{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]Category, error) {
	list := []Category{}
	for _, c := range r.categories {
		if c.IsActive {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	return c, nil
}

func (r *memoryRepo) GetDetail(ctx context.Context, id int64) (Detail, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Category: c, Products: []ProductSummary{}}, nil
}

func (r *memoryRepo) Create(ctx context.Context, category Category) (Category, error) {
	r.nextID++
	category.ID = r.nextID
	category.IsActive = true
	r.categories[category.ID] = category
	return category, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, update Update) (Category, error) {
	return r.Get(ctx, id)
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	c, ok := r.categories[id]
	if !ok {
		return httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	c.IsActive = false
	r.categories[id] = c
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memoryRepo) CountProducts(ctx context.Context, id int64) (int, error) {
	return r.products[id], nil
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "power-tools", Slugify("Power Tools"))
	require.Equal(t, "usb-c-chargers", Slugify("  USB-C   Chargers "))
}

func TestCreateDefaultsSlug(t *testing.T) {
	svc := NewService(newMemoryRepo())

	c, err := svc.Create(context.Background(), Category{Name: "Power Tools"})
	require.NoError(t, err)
	require.Equal(t, "power-tools", c.Slug)

	c, err = svc.Create(context.Background(), Category{Name: "Cables", Slug: "custom-slug"})
	require.NoError(t, err)
	require.Equal(t, "custom-slug", c.Slug)

	_, err = svc.Create(context.Background(), Category{Name: " "})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDeleteGuardsReferencedCategories(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	c, err := svc.Create(ctx, Category{Name: "Power Tools"})
	require.NoError(t, err)

	repo.products[c.ID] = 3
	err = svc.Delete(ctx, c.ID)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Cannot delete category with 3 products. Please reassign or delete products first.")
	require.Empty(t, repo.deleted)

	repo.products[c.ID] = 0
	require.NoError(t, svc.Delete(ctx, c.ID))
	require.Equal(t, []int64{c.ID}, repo.deleted)

	require.ErrorIs(t, svc.Delete(ctx, 999), httpx.ErrNotFound)
}
