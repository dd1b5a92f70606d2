package auth

import "context"

type contextKey string

const identityContextKey contextKey = "github.com/sanduta-art/api/internal/platform/auth/identity"

// Identity describes the authenticated caller. Guest identities are minted
// from the anonymous session header and carry no email or roles.
type Identity struct {
	UID   string
	Email string
	Roles []string
	Guest bool
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	for _, candidate := range i.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// WithIdentity stores the identity on the context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity stored by the middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
