package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rememberthis/remember-server/internal/identity"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// identityKey is the context key for the verified caller identity.
const identityKey ctxKey = "identity"

// GetIdentity returns the verified identity from context, or nil for
// anonymous callers.
func GetIdentity(ctx context.Context) *identity.Identity {
	ident, _ := ctx.Value(identityKey).(*identity.Identity)
	return ident
}

// RequireIdentity returns the verified identity from context.
// Returns a 401 error if the caller is not authenticated.
func RequireIdentity(ctx context.Context) (*identity.Identity, error) {
	ident := GetIdentity(ctx)
	if ident == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return ident, nil
}

// setIdentity stores the identity in context.
func setIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// authMiddleware verifies Bearer session tokens and stores the identity in
// context. Missing or invalid tokens continue anonymously; handlers use
// RequireIdentity to reject where authentication is mandatory.
func authMiddleware(tokens *identity.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := tokens.Verify(authHeader[7:])
			if err != nil {
				// Invalid token: continue anonymously, protected handlers reject.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setIdentity(r.Context(), ident)))
		})
	}
}
