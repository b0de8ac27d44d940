package categories

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// Handler wires HTTP endpoints for category browsing and admin maintenance.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
	admin   func(http.Handler) http.Handler
}

func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, respond: respond, admin: admin}
}

// MountRoutes registers category routes. Reads are public; writes sit behind
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

type categoryRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Image       *string `json:"image"`
	SortOrder   int     `json:"sortOrder"`
}

type categoryUpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Image       *string `json:"image"`
	SortOrder   *int    `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"categories": list})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"category": detail})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	created, err := h.service.Create(r.Context(), Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Image:       req.Image,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Data{"category": created})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	var req categoryUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	updated, err := h.service.Update(r.Context(), id, Update{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Image:       req.Image,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"category": updated})
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
	httpx.JSON(w, http.StatusOK, httpx.Data{"message": "Category deleted successfully"})
}

func urlID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, httpx.Errf(httpx.ErrNotFound, "Category not found")
	}
	return id, nil
}
