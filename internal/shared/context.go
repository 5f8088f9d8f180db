package shared

import "context"

// Identity describes the authenticated caller, as established by the auth
// middleware. Username feeds the created_by/updated_by audit columns.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the caller identity from context. The zero
// Identity is returned for unauthenticated requests.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityContextKey{}).(Identity)
	return id
}
