package products

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/voltmart/voltmart/internal/catalog/categories"
	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
)

// AuditPort records admin catalog mutations.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	logger *slog.Logger
	repo   Repository
	audit  AuditPort
}

func NewService(logger *slog.Logger, repo Repository, audit AuditPort) *Service {
	return &Service{logger: logger, repo: repo, audit: audit}
}

func (s *Service) recordAudit(ctx context.Context, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actor, _ := shared.IdentityFromContext(ctx)
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "product",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	}); err != nil {
		s.logger.Warn("audit product mutation", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Get returns a product by ID and bumps its view counter. The counter bump is
// best-effort; a failure there never fails the read.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, httpx.Errf(httpx.ErrNotFound, "Product not found")
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("increment product views", slog.Int64("product_id", id), slog.Any("error", err))
	} else {
		p.Views++
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := validate(product); err != nil {
		return Product{}, err
	}
	exists, err := s.repo.CategoryExists(ctx, product.CategoryID)
	if err != nil {
		return Product{}, err
	}
	if !exists {
		return Product{}, httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	if product.Slug == "" {
		product.Slug = categories.Slugify(product.Name)
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	s.recordAudit(ctx, "product.create", created.ID, map[string]any{"name": created.Name})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, update Update) (Product, error) {
	if id <= 0 {
		return Product{}, httpx.Errf(httpx.ErrNotFound, "Product not found")
	}
	if err := validateUpdate(update); err != nil {
		return Product{}, err
	}
	if update.CategoryID != nil {
		exists, err := s.repo.CategoryExists(ctx, *update.CategoryID)
		if err != nil {
			return Product{}, err
		}
		if !exists {
			return Product{}, httpx.Errf(httpx.ErrNotFound, "Category not found")
		}
	}
	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return Product{}, err
	}
	s.recordAudit(ctx, "product.update", id, nil)
	return updated, nil
}

// Delete soft-deletes a product so historical order items keep resolving.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return httpx.Errf(httpx.ErrNotFound, "Product not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "product.delete", id, nil)
	return nil
}
