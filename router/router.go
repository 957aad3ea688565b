package router

import (
	"go-notes-api/handler"
	"go-notes-api/service"
	"net/http"
	"path"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter wires all routes behind the auth middleware chain. Every
// request passes through AuthMiddleware, which attaches an identity
// when a valid access token is present; paths not covered by the
// public-endpoint allowlist additionally require that identity.
func NewRouter(tokens *service.TokenService, publicEndpoints []string, authHandler *handler.AuthHandler, userHandler *handler.UserHandler, noteHandler *handler.NoteHandler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))

	mux.Handle("GET /user/me", handler.ErrorHandlingMiddleware(userHandler.Me))

	mux.Handle("POST /notes", handler.ErrorHandlingMiddleware(noteHandler.CreateNote))
	mux.Handle("GET /notes", handler.ErrorHandlingMiddleware(noteHandler.ListNotes))
	mux.Handle("DELETE /notes/{id}", handler.ErrorHandlingMiddleware(noteHandler.DeleteNote))

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var h http.Handler = mux
	h = AuthPolicy(publicEndpoints)(h)
	h = handler.AuthMiddleware(tokens)(h)
	return h
}

// AuthPolicy enforces the public-endpoint allowlist: requests to paths
// that match no public pattern must carry an authenticated identity.
func AuthPolicy(publicEndpoints []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		protected := handler.RequireAuth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(publicEndpoints, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			protected.ServeHTTP(w, r)
		})
	}
}

// IsPublicEndpoint reports whether the request path matches any of the
// configured patterns. A pattern is an exact path, a glob in the
// path.Match sense, or a trailing "/*" which matches the whole subtree.
func IsPublicEndpoint(patterns []string, reqPath string) bool {
	for _, pattern := range patterns {
		if pattern == reqPath {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if reqPath == prefix || strings.HasPrefix(reqPath, prefix+"/") {
				return true
			}
			continue
		}
		if matched, err := path.Match(pattern, reqPath); err == nil && matched {
			return true
		}
	}
	return false
}
