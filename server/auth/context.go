package auth

import "context"

// ContextKey is the key type for context values set by this package.
type ContextKey int

const (
	// IdentityContextKey is the key for the authenticated *Identity.
	IdentityContextKey ContextKey = iota
)

// Identity is the authenticated caller.
type Identity struct {
	UserID      string
	WorkspaceID string
	Email       string
}

// IdentityFromClaims builds the caller identity from verified claims.
func IdentityFromClaims(claims *Claims) *Identity {
	return &Identity{
		UserID:      claims.Subject,
		WorkspaceID: claims.Workspace(),
		Email:       claims.Email,
	}
}

// SetIdentityInContext stores the caller identity in ctx.
func SetIdentityInContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, identity)
}

// GetIdentity returns the caller identity stored in ctx, or nil.
func GetIdentity(ctx context.Context) *Identity {
	identity, _ := ctx.Value(IdentityContextKey).(*Identity)
	return identity
}
