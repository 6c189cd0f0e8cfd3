package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/paywallet/walletgo/pkg/utils"
)

type ContextKey string

// UserIDKey is the request-context key under which AuthMiddleware stores the
// authenticated user id.
const UserIDKey ContextKey = "userID"

const bearerPrefix = "Bearer "

// AuthMiddleware rejects requests without a valid bearer token and puts the
// token's user id on the request context for downstream handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	jwtService := &JWTService{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, err := jwtService.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
