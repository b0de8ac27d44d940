package orders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
	_ "github.com/voltmart/voltmart/testing"
)

func testRouter(t *testing.T, repo *memoryRepo, identity shared.Identity) http.Handler {
	t.Helper()
	svc, _ := testService(repo)
	respond := httpx.NewResponder(false)
	handler := NewHandler(slog.New(slog.DiscardHandler), svc, respond, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !identity.IsAdmin() {
				respond.Error(w, httpx.Errf(httpx.ErrForbidden, "Access denied. Admin privileges required."))
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithIdentity(req.Context(), identity)))
		})
	})
	r.Route("/api/orders", handler.MountRoutes)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *httpx.ErrorBody `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestHandlerPlaceEnvelope(t *testing.T) {
	repo := newMemoryRepo(widget(1, "Volt Charger", "100", strPtr("80"), 5))
	router := testRouter(t, repo, shared.Identity{ID: 7, Role: shared.RoleCustomer})

	code, env := doJSON(t, router, http.MethodPost, "/api/orders",
		`{"items":[{"productId":1,"quantity":2}],"shippingAddress":{"street":"1 Main St"}}`)
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)
	require.Nil(t, env.Error)

	var data struct {
		Order Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.True(t, data.Order.TotalAmount.Equal(dec("160")))
	require.Equal(t, StatusPending, data.Order.Status)
	require.Len(t, data.Order.Items, 1)
}

func TestHandlerPlaceErrors(t *testing.T) {
	repo := newMemoryRepo(widget(1, "Volt Charger", "100", nil, 5))
	router := testRouter(t, repo, shared.Identity{ID: 7, Role: shared.RoleCustomer})

	code, env := doJSON(t, router, http.MethodPost, "/api/orders",
		`{"items":[],"shippingAddress":{"street":"1 Main St"}}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.False(t, env.Success)
	require.Equal(t, "Order must contain at least one item", env.Error.Message)
	require.Equal(t, http.StatusBadRequest, env.Error.Status)

	code, env = doJSON(t, router, http.MethodPost, "/api/orders",
		`{"items":[{"productId":42,"quantity":1}],"shippingAddress":{"street":"1 Main St"}}`)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Product with ID 42 not found", env.Error.Message)

	code, env = doJSON(t, router, http.MethodPost, "/api/orders",
		`{"items":[{"productId":1,"quantity":10}],"shippingAddress":{"street":"1 Main St"}}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Insufficient stock for Volt Charger. Available: 5", env.Error.Message)
}

func TestHandlerAdminGate(t *testing.T) {
	repo := newMemoryRepo(widget(1, "Volt Charger", "100", nil, 5))
	customer := testRouter(t, repo, shared.Identity{ID: 7, Role: shared.RoleCustomer})

	code, env := doJSON(t, customer, http.MethodGet, "/api/orders/admin/all", "")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Access denied. Admin privileges required.", env.Error.Message)

	admin := testRouter(t, repo, shared.Identity{ID: 99, Role: shared.RoleAdmin})
	code, env = doJSON(t, admin, http.MethodGet, "/api/orders/admin/all", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)
}

func TestHandlerGetForbidden(t *testing.T) {
	repo := newMemoryRepo(widget(1, "Volt Charger", "100", nil, 5))
	owner := testRouter(t, repo, shared.Identity{ID: 7, Role: shared.RoleCustomer})

	code, _ := doJSON(t, owner, http.MethodPost, "/api/orders",
		`{"items":[{"productId":1,"quantity":1}],"shippingAddress":{"street":"1 Main St"}}`)
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, owner, http.MethodGet, "/api/orders/1", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	other := testRouter(t, repo, shared.Identity{ID: 8, Role: shared.RoleCustomer})
	code, env = doJSON(t, other, http.MethodGet, "/api/orders/1", "")
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Not authorized to access this order", env.Error.Message)
}
