package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hangar/pkg/domain"
)

// JWTValidator validates a bearer token and returns the claims hangar cares
// about.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims carries the authenticated account.
type JWTClaims struct {
	Account domain.AccountID
}

type contextKeyAccount struct{}

// GetAccount retrieves the authenticated account from the context, or the
// zero AccountID when the request was unauthenticated.
func GetAccount(ctx context.Context) domain.AccountID {
	if account, ok := ctx.Value(contextKeyAccount{}).(domain.AccountID); ok {
		return account
	}
	return ""
}

// WithAccount injects an account into a context. For service unit tests that
// bypass the HTTP middleware chain.
func WithAccount(ctx context.Context, account domain.AccountID) context.Context {
	return context.WithValue(ctx, contextKeyAccount{}, account)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated account in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token validation failed",
					"request_id", GetRequestID(r.Context()),
					"error", err.Error(),
				)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), claims.Account)))
		})
	}
}
