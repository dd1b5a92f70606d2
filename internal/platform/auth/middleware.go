package auth

import (
	"net/http"
	"strings"

	"github.com/sanduta-art/api/internal/platform/httpx"
)

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(tokenString string) (*Identity, error)
}

// MiddlewareOptions configures the authentication middleware chain.
type MiddlewareOptions struct {
	Verifier TokenVerifier
	// AllowGuests mints a guest identity from the session header when no
	// bearer token is presented.
	AllowGuests   bool
	SessionHeader string
}

// Authenticate resolves the caller identity and stores it on the context.
// A malformed or invalid bearer token is rejected immediately; an absent one
// falls through so public routes keep working.
func Authenticate(opts MiddlewareOptions) func(http.Handler) http.Handler {
	sessionHeader := opts.SessionHeader
	if sessionHeader == "" {
		sessionHeader = "X-Session-Id"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token, ok := bearerToken(r); ok {
				if opts.Verifier == nil {
					httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication is not configured", http.StatusUnauthorized))
					return
				}
				identity, err := opts.Verifier.Verify(token)
				if err != nil {
					httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "invalid bearer token", http.StatusUnauthorized))
					return
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
				return
			}

			if opts.AllowGuests {
				if session := strings.TrimSpace(r.Header.Get(sessionHeader)); session != "" {
					guest := &Identity{UID: "guest:" + session, Guest: true}
					next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, guest)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireIdentity rejects requests that carry no resolved identity. Cart
// routes sit behind this guard.
func RequireIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				httpx.WriteError(r.Context(), w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
