// Package controller holds the HTTP middlewares wrapped around the API mux.
//
//   - WithCORS echoes allowed origins so browsers may send the anti-forgery cookie cross-origin.
//   - WithLogger carries a request ID and logger in the context and writes the access log.
//   - WithBodyLimit caps request bodies before any middleware reads them.
//   - WithAntiForgery rejects unsafe requests without a valid token with status 419.
//
// PprofMux serves net/http/pprof under a mount prefix.
package controller
