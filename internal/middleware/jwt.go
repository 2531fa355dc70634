package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/crucial707/ems-inventory/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const principalKey ctxKey = "principal"

// JWT validates the Bearer token and installs the session principal in the
// request context. Tokens carry username, role, and email claims, issued at
// login; every handler receives the principal explicitly from the context
// rather than re-reading any session state.
func JWT(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			username, _ := claims["username"].(string)
			role, _ := claims["role"].(string)
			email, _ := claims["email"].(string)
			if username == "" {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			p := &models.Principal{Username: username, Role: role, Email: email}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// WithPrincipal returns a context carrying the session principal.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the session principal installed by JWT.
func GetPrincipal(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*models.Principal)
	return p, ok
}
