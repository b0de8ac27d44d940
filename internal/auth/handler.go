package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
	"github.com/voltmart/voltmart/internal/users"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	middleware *Middleware
	repo       users.Repository
	respond    *httpx.Responder
	validator  *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, middleware *Middleware, repo users.Repository, respond *httpx.Responder) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		middleware: middleware,
		repo:       repo,
		respond:    respond,
		validator:  validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireUser)
		r.Get("/me", h.handleMe)
		r.Post("/logout", h.handleLogout)
	})
}

type registerRequest struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respond.Error(w, validationError(err))
		return
	}
	u, token, err := h.service.Register(r.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Data{"user": u, "token": token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Invalid request body"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.respond.Error(w, validationError(err))
		return
	}
	u, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"user": u, "token": token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	u, err := h.repo.FindByID(r.Context(), identity.ID)
	if err != nil {
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"user": u})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.middleware.RevokeClaims(r); err != nil {
		h.logger.Warn("revoke token", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"message": "Logged out successfully"})
}

func validationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return httpx.Errf(httpx.ErrValidation, "Validation failed on field %q", errs[0].Field())
	}
	return httpx.Errf(httpx.ErrValidation, "Validation failed")
}
