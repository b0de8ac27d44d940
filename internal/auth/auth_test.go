package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voltmart/voltmart/internal/platform/httpx"
	"github.com/voltmart/voltmart/internal/shared"
	"github.com/voltmart/voltmart/internal/users"
	_ "github.com/voltmart/voltmart/testing"
)

type memoryUsers struct {
	byID    map[int64]users.User
	byEmail map[string]users.User
	nextID  int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[int64]users.User{}, byEmail: map[string]users.User{}}
}

func (r *memoryUsers) Create(ctx context.Context, u users.User) (users.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return users.User{}, httpx.Errf(httpx.ErrDuplicate, "Email already registered")
	}
	r.nextID++
	u.ID = r.nextID
	u.IsActive = true
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *memoryUsers) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) FindByID(ctx context.Context, id int64) (*users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) UpdateProfile(ctx context.Context, id int64, update users.ProfileUpdate) error {
	return nil
}

func (r *memoryUsers) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.byID[id] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *memoryUsers) deactivate(id int64) {
	u := r.byID[id]
	u.IsActive = false
	r.byID[id] = u
	r.byEmail[u.Email] = u
}

func seedUser(t *testing.T, repo *memoryUsers, email, password, role string) users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := repo.Create(context.Background(), users.User{
		FirstName:    "Dana",
		LastName:     "Volt",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", time.Hour)
	u := users.User{ID: 42, Email: "dana@example.com", Role: shared.RoleCustomer}

	raw, err := tokens.Issue(u)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "dana@example.com", claims.Email)
	require.Equal(t, shared.RoleCustomer, claims.Role)
	require.NotEmpty(t, claims.ID)

	_, err = NewTokenManager("other-secret", time.Hour).Parse(raw)
	require.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenManager("test-secret", -time.Minute)
	raw, err := tokens.Issue(users.User{ID: 1, Email: "x@example.com"})
	require.NoError(t, err)

	_, err = tokens.Parse(raw)
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	repo := newMemoryUsers()
	seedUser(t, repo, "dana@example.com", "hunter2-hunter2", shared.RoleCustomer)
	svc := NewService(discard(), repo, NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	u, token, err := svc.Login(ctx, "Dana@Example.com", "hunter2-hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "dana@example.com", u.Email)

	_, _, err = svc.Login(ctx, "dana@example.com", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	require.EqualError(t, err, "Invalid credentials")

	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter2-hunter2")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	require.EqualError(t, err, "Invalid credentials")

	repo.deactivate(u.ID)
	_, _, err = svc.Login(ctx, "dana@example.com", "hunter2-hunter2")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
	require.EqualError(t, err, "Account is deactivated")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryUsers()
	svc := NewService(discard(), repo, NewTokenManager("test-secret", time.Hour))
	ctx := context.Background()

	u, token, err := svc.Register(ctx, RegisterInput{
		FirstName: "Dana", LastName: "Volt",
		Email: "Dana@Example.com", Password: "hunter2-hunter2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "dana@example.com", u.Email)
	require.Equal(t, shared.RoleCustomer, u.Role)

	_, _, err = svc.Register(ctx, RegisterInput{
		FirstName: "Dana", LastName: "Volt",
		Email: "dana@example.com", Password: "hunter2-hunter2",
	})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func testMiddleware(t *testing.T) (*Middleware, *memoryUsers, *TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := newMemoryUsers()
	tokens := NewTokenManager("test-secret", time.Hour)
	mw := NewMiddleware(discard(), tokens, NewDenylist(rdb), repo, httpx.NewResponder(false))
	return mw, repo, tokens, mr
}

func protectedProbe(mw *Middleware) (http.Handler, *shared.Identity) {
	var seen shared.Identity
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := shared.IdentityFromContext(r.Context())
		seen = identity
		w.WriteHeader(http.StatusNoContent)
	}))
	return handler, &seen
}

func TestRequireUser(t *testing.T) {
	mw, repo, tokens, _ := testMiddleware(t)
	u := seedUser(t, repo, "dana@example.com", "hunter2-hunter2", shared.RoleCustomer)
	handler, seen := protectedProbe(mw)

	// No token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	raw, err := tokens.Issue(u)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, u.ID, seen.ID)
	require.Equal(t, shared.RoleCustomer, seen.Role)

	// Deactivated account.
	repo.deactivate(u.ID)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.Clone(req.Context()))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	mw, repo, tokens, _ := testMiddleware(t)
	u := seedUser(t, repo, "dana@example.com", "hunter2-hunter2", shared.RoleCustomer)
	handler, _ := protectedProbe(mw)

	raw, err := tokens.Issue(u)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.NoError(t, mw.RevokeClaims(req))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.Clone(req.Context()))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	mw, repo, tokens, _ := testMiddleware(t)
	customer := seedUser(t, repo, "dana@example.com", "hunter2-hunter2", shared.RoleCustomer)
	admin := seedUser(t, repo, "root@example.com", "hunter2-hunter2", shared.RoleAdmin)

	handler := mw.RequireUser(mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rawCustomer, err := tokens.Issue(customer)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+rawCustomer)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Admin privileges required")

	rawAdmin, err := tokens.Issue(admin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+rawAdmin)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDenylistTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	denylist := NewDenylist(rdb)
	ctx := context.Background()

	require.NoError(t, denylist.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	// Expired tokens need no denylist entry.
	require.NoError(t, denylist.Revoke(ctx, "jti-2", -time.Second))
	revoked, err = denylist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}
