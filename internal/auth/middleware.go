package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sportmatch/backend/internal/httperr"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// Middleware wraps a handler and requires a valid "Authorization: Bearer"
// token, storing the authenticated user ID in the request context.
func (m *Manager) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			httperr.Write(w, httperr.Unauthorized("missing_token"))
			return
		}
		userID, err := m.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			httperr.Write(w, httperr.Unauthorized("invalid_token"))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// UserID returns the authenticated user ID stored by Middleware, or 0.
func UserID(ctx context.Context) uint64 {
	id, _ := ctx.Value(userIDKey).(uint64)
	return id
}
