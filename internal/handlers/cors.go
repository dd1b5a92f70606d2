package handlers

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows browser calls from the configured origins. With no
// origins configured it is a passthrough, leaving cross-origin requests to
// the browser's same-origin policy.
func CORSMiddleware(allowedOrigins []string, sessionHeader string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	headers := []string{"Accept", "Authorization", "Content-Type"}
	if sessionHeader != "" {
		headers = append(headers, sessionHeader)
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   headers,
		AllowCredentials: true,
		MaxAge:           300,
	})
}
