package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/GlebRadaev/fedha/pkg/utils"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type ContextKey string

const OperatorIDKey ContextKey = "operatorID"

// AuthMiddleware rejects requests without a valid bearer token and stores the
// operator id in the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), OperatorIDKey, claims.OperatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func OperatorIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(OperatorIDKey).(int)
	return id, ok
}
