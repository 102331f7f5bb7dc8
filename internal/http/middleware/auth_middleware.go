package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/http/response"
	"github.com/avialine/backoffice/internal/security"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// AuthMiddleware authenticates requests with a bearer access token and
// stores the verified claims on the request context.
func AuthMiddleware(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			claims, err := jwtMgr.ParseAccessToken(strings.TrimSpace(auth[7:]))
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*security.Claims)
	return c, ok
}

// UserIDFromContext is a convenience over ClaimsFromContext for
// handlers that only need the caller's id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, false
	}
	return id, true
}

// RequireAdministrator gates a route on the administrator role carried
// in the access token.
func RequireAdministrator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			return
		}
		if claims.Role != domain.RoleAdministrator {
			response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "administrator role required", map[string]string{"required": domain.RoleAdministrator})
			return
		}
		next.ServeHTTP(w, r)
	})
}
