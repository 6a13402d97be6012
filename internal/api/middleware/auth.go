package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/dom/counter-app/internal/api/response"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// TokenValidator resolves a bearer token to the user it was issued for
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("ERROR [middleware.Auth] missing authorization header")
				response.Error(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				log.Printf("ERROR [middleware.Auth] invalid authorization header format")
				response.Error(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			userID, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token validation failed: %v", err)
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
