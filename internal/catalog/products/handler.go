package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// Handler wires HTTP endpoints for product browsing and admin maintenance.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
	admin   func(http.Handler) http.Handler
}

func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, respond: respond, admin: admin}
}

// MountRoutes registers product routes. Reads are public; writes sit behind
// the admin middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Group(func(r chi.Router) {
		r.Use(h.admin)
		r.Post("/", h.handleCreate)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, pagination, err := h.service.List(r.Context(), FiltersFromQuery(r))
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"products": list, "pagination": pagination})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"product": p})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	if req.Price == nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Please provide name, price, and category"))
		return
	}
	created, err := h.service.Create(r.Context(), Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       decimalOrZero(req.Price),
		SalePrice:   req.SalePrice,
		SKU:         req.SKU,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Badge:       req.Badge,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Data{"product": created})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	updated, err := h.service.Update(r.Context(), id, Update{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		SKU:         req.SKU,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Images:      req.Images,
		Badge:       req.Badge,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"product": updated})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"message": "Product deleted successfully"})
}

func urlID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, httpx.Errf(httpx.ErrNotFound, "Product not found")
	}
	return id, nil
}
