package handler

import (
	"context"
	"go-notes-api/common"
	"go-notes-api/model"
	"go-notes-api/service"
	"net/http"
	"strings"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware inspects the Authorization header and, when it carries
// a valid access token, attaches the token's subject to the request
// context. It never rejects a request itself: a missing, malformed or
// invalid token just leaves the request anonymous, and the decision to
// reject is made by RequireAuth on protected routes.
func AuthMiddleware(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(headerParts[1], model.TokenTypeAccess)
			if err != nil {
				// Anonymous, not an error. The handler chain decides
				// whether an identity is required.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that reached a protected route without an
// authenticated identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			common.NewAppError(http.StatusUnauthorized, "Authentication required", nil).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
