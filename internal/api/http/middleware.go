package http

import (
	"context"
	"net/http"
	"strings"

	"shg-backend/internal/domain"
	"shg-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "portal_claims"

// AuthMiddleware validates the bearer token minted by the identity provider
// and stashes its claims on the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, security.ErrInvalidToken)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFrom(r *http.Request) *security.PortalClaims {
	claims, _ := r.Context().Value(claimsKey).(*security.PortalClaims)
	return claims
}

// requireAdmin guards the admin-portal endpoints.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		if claims == nil || claims.Role != string(domain.MemberRoleAdmin) {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin role required"})
			return
		}
		next(w, r)
	}
}
