package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hugh/go-planner/internal/api/dto"
	"github.com/hugh/go-planner/internal/auth"
	"github.com/hugh/go-planner/internal/tenant"
)

// Auth verifies the bearer token and stores the resulting tenant.Actor on the
// request context. Requests without a complete identity never reach next.
func Auth(tokens auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			actor, err := tenant.NewActor(claims.UserID, claims.CustomerID, claims.Role)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			annotate(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(tenant.WithActor(r.Context(), actor)))
		})
	}
}

// BearerToken returns the token from an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.Error(message, nil))
}
