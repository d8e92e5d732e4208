package controller

import (
	"errors"
	"net/http"
	"registration/pkg/logger"
	"registration/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// StatusTokenMismatch is the non-standard status answered when an
// anti-forgery check fails.
const StatusTokenMismatch = 419

// TokenVerifier checks the anti-forgery token presented with a request.
type TokenVerifier interface {
	Verify(r *http.Request) error
}

// WithAntiForgery returns a middleware that requires a valid anti-forgery
// token on unsafe methods. Failed checks are answered with 419 and never
// reach next. A body the verifier could not read (serrors.ErrBadRequest) is
// answered with 400 instead.
func WithAntiForgery(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)

			return
		}

		if err := verifier.Verify(r); err != nil {
			if errors.Is(err, serrors.ErrBadRequest) {
				logger.Info(r.Context(), "unreadable request body", zap.Error(err))
				writeMessage(w, http.StatusBadRequest, badRequestMessage(err))

				return
			}

			logger.Warn(r.Context(), "anti-forgery check failed", zap.Error(err))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(StatusTokenMismatch)
			_, _ = w.Write([]byte(`{"message":"CSRF token mismatch."}`))

			return
		}

		next.ServeHTTP(w, r)
	})
}

func badRequestMessage(err error) string {
	var sErr *serrors.Error
	if errors.As(err, &sErr) && sErr.Message() != "" {
		return sErr.Message()
	}

	return "Bad Request"
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
