package middleware

import (
	"errors"
	"net/http"
	"strings"

	"taskmanager/internal/application/auth"
	"taskmanager/internal/delivery/http/handler"
	"taskmanager/internal/domain/user"
)

// Auth middleware validates the bearer token and puts the user in context
func Auth(authService auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				handler.SendError(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			u, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, user.ErrUnauthorized) {
					handler.SendError(w, "Invalid or expired token", http.StatusUnauthorized)
					return
				}
				handler.SendError(w, "Failed to validate token", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(handler.WithUser(r.Context(), u)))
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
