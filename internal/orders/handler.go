package orders

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
)

// Handler wires HTTP endpoints for orders. All routes require an
// authenticated user; the caller mounts the auth middleware.
type Handler struct {
	logger  *slog.Logger
	service *Service
	respond *httpx.Responder
	admin   func(http.Handler) http.Handler
}

func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, respond: respond, admin: admin}
}

// MountRoutes registers order routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handlePlace)
	r.Get("/", h.handleListMine)
	r.Group(func(r chi.Router) {
		r.Use(h.admin)
		r.Get("/admin/all", h.handleListAll)
		r.Put("/{id}/status", h.handleUpdateStatus)
	})
	r.Get("/{id}", h.handleGet)
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	var req PlaceOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	order, err := h.service.Place(r.Context(), identity.ID, req)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Data{"order": order})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	list, err := h.service.OrdersFor(r.Context(), identity.ID)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"orders": list})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	order, err := h.service.Get(r.Context(), identity, id)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"order": order})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), identity, id, req)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"order": order})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := AdminFilter{Status: Status(q.Get("status"))}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	list, pagination, err := h.service.ListAll(r.Context(), filter)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"orders": list, "pagination": pagination})
}

func urlID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, httpx.Errf(httpx.ErrNotFound, "Order not found")
	}
	return id, nil
}
