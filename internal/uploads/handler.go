package uploads

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// Handler wires image upload endpoints. All routes are admin-only; the
// caller mounts the auth middleware.
type Handler struct {
	logger  *slog.Logger
	storage *Storage
	respond *httpx.Responder
}

func NewHandler(logger *slog.Logger, storage *Storage, respond *httpx.Responder) *Handler {
	return &Handler{logger: logger, storage: storage, respond: respond}
}

// MountRoutes registers upload routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/image", h.handleUploadImage)
	r.Delete("/image", h.handleDeleteImage)
}

func (h *Handler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "File too large. Maximum size is 5MB"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "No file uploaded"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := ValidateImage(header.Filename, contentType, header.Size); err != nil {
		h.respond.Error(w, err)
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "products"
	}
	key := ObjectKey(folder, header.Filename)

	url, err := h.storage.Put(r.Context(), key, contentType, file)
	if err != nil {
		h.logger.Error("upload image", slog.String("key", key), slog.Any("error", err))
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{
		"url":  url,
		"key":  key,
		"size": header.Size,
	})
}

func (h *Handler) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		h.respond.Error(w, httpx.Errf(httpx.ErrValidation, "Object key is required"))
		return
	}
	if err := h.storage.Delete(r.Context(), key); err != nil {
		h.logger.Error("delete image", slog.String("key", key), slog.Any("error", err))
		h.respond.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Data{"message": "Image deleted successfully"})
}
