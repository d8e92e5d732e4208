// Package v1handler implements the registration endpoints: the HTML form page
// and the JSON registration API behind it.
package v1handler

import (
	"context"
	"errors"
	"net/http"
	"registration/internal/registration"
	"registration/pkg/logger"
	"registration/pkg/serrors"

	"go.uber.org/zap"
)

// MessageServerError is the only detail an unexpected failure exposes.
const MessageServerError = "Server Error"

// TokenIssuer issues the anti-forgery token embedded into the form page.
type TokenIssuer interface {
	Issue(w http.ResponseWriter, r *http.Request) (string, error)
}

// Deps holds the collaborators of the v1 handler.
type Deps struct {
	Registrar registration.Registrar
	Tokens    TokenIssuer
}

// Options configure request handling limits.
type Options struct {
	// MaxBodyBytes limits the registration request body. Zero applies defaultMaxBodyBytes.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 64 << 10

type Handler struct {
	registrar    registration.Registrar
	tokens       TokenIssuer
	maxBodyBytes int64
}

func New(deps Deps, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Handler{
		registrar:    deps.Registrar,
		tokens:       deps.Tokens,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// MaxBodyBytes returns the request body limit applied to Register.
func (h *Handler) MaxBodyBytes() int64 {
	return h.maxBodyBytes
}

// ErrorBody is the JSON body of every non-success response.
type ErrorBody struct {
	Message string
	// Errors is only set for validation failures.
	Errors serrors.FieldErrors
}

// ErrorResponse pairs an ErrorBody with its HTTP status code.
type ErrorResponse struct {
	StatusCode int
	Response   ErrorBody
}

// kindStatus maps semantic error kinds to HTTP status codes and the message
// used when the error carries none.
var kindStatus = []struct { //nolint: gochecknoglobals
	kind   serrors.Kind
	status int
	msg    string
}{
	{serrors.ErrValidation, http.StatusUnprocessableEntity, "The given data was invalid."},
	{serrors.ErrBadRequest, http.StatusBadRequest, "The request body is malformed."},
	{serrors.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "Unsupported content type."},
	{serrors.ErrUnauthorized, http.StatusUnauthorized, "Unauthenticated."},
	{serrors.ErrForbidden, http.StatusForbidden, "This action is unauthorized."},
	{serrors.ErrNotFound, http.StatusNotFound, "Not Found"},
	{serrors.ErrConflict, http.StatusConflict, "Conflict"},
	{serrors.ErrRateLimited, http.StatusTooManyRequests, "Too Many Attempts."},
	{serrors.ErrTimeout, http.StatusGatewayTimeout, "Gateway Timeout"},
	{serrors.ErrUnavailable, http.StatusServiceUnavailable, "Service Unavailable"},
}

// NewError maps err to the response sent to the client. Errors without a
// known kind, and ErrInternal, become a bare 500 so no internal detail leaks;
// they are logged with their full chain.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	for _, ks := range kindStatus {
		if !errors.Is(err, ks.kind) {
			continue
		}

		body := ErrorBody{Message: ks.msg}
		var se *serrors.Error
		if errors.As(err, &se) && se.Message() != "" && ks.kind != serrors.ErrValidation {
			body.Message = se.Message()
		}
		if fields, ok := serrors.FieldsOf(err); ok {
			body.Errors = fields
			body.Message = summarize(fields)
		}

		return &ErrorResponse{StatusCode: ks.status, Response: body}
	}

	logger.Error(ctx, "unexpected error while handling request", zap.Error(err))

	return &ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Response:   ErrorBody{Message: MessageServerError},
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, res.StatusCode, encodeError(res.Response))
}
