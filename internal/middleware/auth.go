package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arjunkashyap/contactbook-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "user_id"

// extractBearerToken returns the token from an "Authorization: Bearer <token>"
// header value, or "" when the header is missing or uses another scheme.
func extractBearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireAuth verifies the bearer token on every request and attaches the
// resolved user id to the request context. Missing or invalid tokens stop the
// chain with 401; downstream handlers can rely on UserID being present.
func RequireAuth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id attached by RequireAuth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
}
