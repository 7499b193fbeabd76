package http

import (
	"context"
	"net/http"
	"strings"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/security"
)

type contextKey string

const (
	contextKeyUserID contextKey = "user-id"
	contextKeyRole   contextKey = "user-role"
)

// GetUserIDFromContext extracts the authenticated user id placed by the auth
// middleware.
func GetUserIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(contextKeyUserID).(int32)
	return id, ok
}

func GetUserRoleFromContext(ctx context.Context) (domain.UserRole, bool) {
	role, ok := ctx.Value(contextKeyRole).(domain.UserRole)
	return role, ok
}

// AuthMiddleware validates the bearer token and injects the acting user id
// and role into the request context. The token is minted by the identity
// collaborator; we only validate and read it.
func AuthMiddleware(tm security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authorization token is not provided", nil)
				return
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, contextKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates the privileged assignment path.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetUserRoleFromContext(r.Context())
		if !ok || role != domain.UserRoleAdmin {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "admin role required", nil)
			return
		}
		next(w, r)
	}
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return header
}
