package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/thriveverse/backend/internal/contextkeys"
	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/internal/handler"
	"github.com/thriveverse/backend/internal/service"
)

// Auth verifies the bearer token and puts the account identity on the
// request context. Requests without a valid token never reach the next
// handler.
func Auth(authSvc *service.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				handler.Error(w, domain.ErrUnauthorized("missing or malformed authorization header"))
				return
			}

			claims, err := authSvc.VerifyToken(token)
			if err != nil {
				handler.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextkeys.UserID, claims.Sub)
			ctx = context.WithValue(ctx, contextkeys.UserEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}
