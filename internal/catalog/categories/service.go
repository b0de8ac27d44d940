package categories

import (
	"context"
	"strings"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// Update carries a partial category change; nil fields are left untouched.
type Update struct {
	Name        *string
	Slug        *string
	Description *string
	Icon        *string
	Image       *string
	SortOrder   *int
	IsActive    *bool
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	if id <= 0 {
		return Detail{}, httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := validate(category); err != nil {
		return Category{}, err
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, update Update) (Category, error) {
	if id <= 0 {
		return Category{}, httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	return s.repo.Update(ctx, id, update)
}

// Delete soft-deletes a category. Categories still referenced by products
// cannot be removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return httpx.Errf(httpx.ErrValidation, "Cannot delete category with %d products. Please reassign or delete products first.", count)
	}
	return s.repo.SoftDelete(ctx, id)
}

// Slugify lowercases a name and collapses whitespace runs into hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
