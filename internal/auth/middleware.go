package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
	"github.com/voltmart/voltmart/internal/users"
)

// Middleware authenticates bearer tokens and enforces role gates.
type Middleware struct {
	logger   *slog.Logger
	tokens   *TokenManager
	denylist *Denylist
	repo     users.Repository
	respond  *httpx.Responder
}

func NewMiddleware(logger *slog.Logger, tokens *TokenManager, denylist *Denylist, repo users.Repository, respond *httpx.Responder) *Middleware {
	return &Middleware{logger: logger, tokens: tokens, denylist: denylist, repo: repo, respond: respond}
}

// RequireUser rejects requests without a valid, unrevoked bearer token
// belonging to an active account.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			m.respond.Error(w, httpx.Errf(httpx.ErrUnauthorized, "Authentication required"))
			return
		}
		claims, err := m.tokens.Parse(raw)
		if err != nil {
			m.respond.Error(w, httpx.Errf(httpx.ErrUnauthorized, "Invalid or expired token"))
			return
		}
		if m.denylist != nil {
			revoked, err := m.denylist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				m.logger.Warn("denylist lookup", slog.Any("error", err))
			} else if revoked {
				m.respond.Error(w, httpx.Errf(httpx.ErrUnauthorized, "Invalid or expired token"))
				return
			}
		}
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			m.respond.Error(w, httpx.Errf(httpx.ErrUnauthorized, "Invalid or expired token"))
			return
		}
		u, err := m.repo.FindByID(r.Context(), id)
		if err != nil || !u.IsActive {
			m.respond.Error(w, httpx.Errf(httpx.ErrUnauthorized, "Account is deactivated"))
			return
		}
		identity := shared.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin rejects authenticated requests from non-admin users.
// Mount inside RequireUser.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := shared.IdentityFromContext(r.Context())
		if !ok {
			m.respond.Error(w, httpx.Errf(httpx.ErrUnauthorized, "Authentication required"))
			return
		}
		if !identity.IsAdmin() {
			m.respond.Error(w, httpx.Errf(httpx.ErrForbidden, "Access denied. Admin privileges required."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RevokeClaims adds the token behind the given claims to the denylist for
// its remaining lifetime.
func (m *Middleware) RevokeClaims(r *http.Request) error {
	raw := bearerToken(r)
	if raw == "" || m.denylist == nil {
		return nil
	}
	claims, err := m.tokens.Parse(raw)
	if err != nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return m.denylist.Revoke(r.Context(), claims.ID, ttl)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
