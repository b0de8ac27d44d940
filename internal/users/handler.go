package users

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
)

// Handler exposes profile endpoints. All routes require an authenticated user;
// the caller mounts the auth middleware.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	respond   *httpx.Responder
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, service: service, respond: respond, validator: validator.New()}
}

// MountRoutes registers profile routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/profile", h.handleGetProfile)
	r.Put("/profile", h.handleUpdateProfile)
	r.Put("/password", h.handleChangePassword)
}

type updateProfileRequest struct {
	FirstName *string         `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string         `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string         `json:"phone" validate:"omitempty,max=32"`
	Avatar    *string         `json:"avatar" validate:"omitempty,max=512"`
	Address   json.RawMessage `json:"address"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	u, err := h.service.Profile(r.Context(), identity.ID)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"user": u})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Validation failed"))
		return
	}
	u, err := h.service.UpdateProfile(r.Context(), identity.ID, ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		Address:   req.Address,
	})
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"user": u})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Password must be at least 8 characters"))
		return
	}
	if err := h.service.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"message": "Password updated successfully"})
}
