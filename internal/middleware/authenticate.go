package middleware

import (
	"context"
	"net/http"

	"github.com/haguru/tracker/internal/interfaces"
	"github.com/haguru/tracker/internal/models"
)

type identityKey struct{}

// Identity is the caller resolved from the x-auth header.
type Identity struct {
	User  *models.User
	Token string
}

// Authenticate resolves the x-auth token to a user when it can. A missing,
// invalid or revoked token leaves the request anonymous; this middleware never
// writes a response, so each handler decides whether an identity is required.
func Authenticate(tokens interfaces.TokenService, logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := tokens.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("Request token did not resolve to a user", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), &Identity{User: user, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok || id == nil || id.User == nil {
		return nil, false
	}
	return id, true
}
