package controller

import "net/http"

// WithBodyLimit returns a middleware that caps the request body at limit bytes
// with http.MaxBytesReader, so every later reader (middlewares included) sees
// the same bound. A non-positive limit disables the cap.
func WithBodyLimit(limit int64, next http.Handler) http.Handler {
	if limit <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}

		next.ServeHTTP(w, r)
	})
}
