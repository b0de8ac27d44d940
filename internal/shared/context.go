package shared

import "context"

// Role values recognised across the application.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity describes the acting user resolved by the auth middleware.
type Identity struct {
	ID    int64
	Email string
	Role  string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. The second return
// value is false when no authenticated user is attached.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
