package controller

import (
	"net/http"
	"slices"
)

const (
	corsAllowHeaders = "Content-Type, Accept, Origin, Cache-Control, X-CSRF-TOKEN, X-Requested-With, X-Request-Id"
	corsAllowMethods = "GET, POST, OPTIONS"
)

// WithCORS returns a middleware that lets the listed origins call the API
// from a browser with credentials, which the anti-forgery cookie needs. The
// request origin is echoed back only when allowed; "*" allows any origin.
// Preflight requests are answered with 204 No Content and never reach next.
func WithCORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAny := slices.Contains(allowedOrigins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		w.Header().Add("Vary", "Origin")

		if origin != "" && (allowAny || slices.Contains(allowedOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
		}

		// handle preflight requests quickly
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}
