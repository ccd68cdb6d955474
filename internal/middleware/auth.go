package middleware

import (
	"context"
	"net/http"

	"github.com/utaweb/social-backend/internal/auth"
)

// TokenValidator resolves a bearer token to the user id it was issued
// to, or "" when the token is unknown or expired.
type TokenValidator interface {
	Get(ctx context.Context, token string) (string, error)
}

// RequireAuth is middleware that validates the Authorization bearer
// token and injects the user_id into the request context.
func RequireAuth(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Get(r.Context(), token)
			if err != nil || userID == "" {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
