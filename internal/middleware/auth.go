package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sarmini1/messagely/internal/http/respond"
)

// TokenParser validates a bearer token and yields the username it was
// issued for.
type TokenParser interface {
	Parse(token string) (string, error)
}

type contextKey string

const usernameKey contextKey = "username"

// RequireAuth rejects requests without a valid bearer token and
// stores the authenticated username in the request context.
func RequireAuth(tokens TokenParser, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			respond.Error(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		username, err := tokens.Parse(tokenString)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
