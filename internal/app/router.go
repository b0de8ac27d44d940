package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/voltmart/voltmart/internal/auth"
	"github.com/voltmart/voltmart/internal/catalog/categories"
	"github.com/voltmart/voltmart/internal/catalog/products"
	"github.com/voltmart/voltmart/internal/observability"
	"github.com/voltmart/voltmart/internal/orders"
	"github.com/voltmart/voltmart/internal/uploads"
	"github.com/voltmart/voltmart/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthMiddleware    *auth.Middleware
	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	CategoriesHandler *categories.Handler
	ProductsHandler   *products.Handler
	OrdersHandler     *orders.Handler
	UploadsHandler    *uploads.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Voltmart defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/categories", params.CategoriesHandler.MountRoutes)
		r.Route("/products", params.ProductsHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireUser)
			r.Route("/users", params.UsersHandler.MountRoutes)
			r.Route("/orders", params.OrdersHandler.MountRoutes)
			if params.UploadsHandler != nil {
				r.Group(func(r chi.Router) {
					r.Use(params.AuthMiddleware.RequireAdmin)
					r.Route("/upload", params.UploadsHandler.MountRoutes)
				})
			}
		})
	})

	return r
}
