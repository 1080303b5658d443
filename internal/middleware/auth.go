package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/service"
)

// TokenVerifier checks a bearer token and returns the caller's identity.
// *service.AuthService satisfies it; tests inject a stub.
type TokenVerifier interface {
	Verify(token string) (service.Identity, error)
}

// ctxKey is unexported so no other package can forge context values.
type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom extracts the authenticated caller from the request context.
// The boolean is false when the request did not pass through RequireAuth.
func IdentityFrom(ctx context.Context) (service.Identity, bool) {
	id, ok := ctx.Value(identityKey).(service.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity. Exported for
// handler tests that exercise protected endpoints without a real token.
func WithIdentity(ctx context.Context, id service.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// RequireAuth returns a middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header and stores the verified identity in
// the request context for downstream handlers.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin returns a middleware that rejects non-admin callers with 403.
// Wire it after RequireAuth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			if id.Role != domain.RoleAdmin {
				writeAuthError(w, http.StatusForbidden, "forbidden", "admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError emits the same JSON error envelope the handler package uses.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
