// Package antiforgery issues and verifies stateless double-submit tokens.
//
// Issue stores a random nonce in an HttpOnly cookie and returns a signed
// HS256 JWT whose ID claim is that nonce. A request is accepted by Verify only
// when it presents a valid, unexpired token (header or form field) whose ID
// matches the nonce cookie sent alongside it.
package antiforgery

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"registration/pkg/serrors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// HeaderName is the request header carrying the token.
	HeaderName = "X-CSRF-TOKEN"
	// FieldName is the form field carrying the token.
	FieldName = "_token"
	// DefaultCookieName is used when Options.CookieName is empty.
	DefaultCookieName = "csrf_nonce"

	// maxFormMemory bounds the in-memory part of a multipart body. Callers
	// limit the body itself with http.MaxBytesReader before Verify runs.
	maxFormMemory = 1 << 20
)

// ErrMismatch is the kind of every error returned by Verify.
var ErrMismatch = serrors.NewKind("CSRF_MISMATCH") //nolint: gochecknoglobals

// Options configure a Manager.
type Options struct {
	// Secret is the HMAC key tokens are signed with.
	Secret []byte
	// TTL is how long an issued token stays valid.
	TTL time.Duration
	// CookieName is the name of the nonce cookie.
	CookieName string
	// Secure marks the nonce cookie as HTTPS-only.
	Secure bool
}

// Manager issues and verifies anti-forgery tokens.
type Manager struct {
	options Options
	now     func() time.Time
}

// New creates a Manager. The secret must not be empty.
func New(options Options) (*Manager, error) {
	if len(options.Secret) == 0 {
		return nil, errors.New("anti-forgery secret must not be empty")
	}
	if options.TTL <= 0 {
		options.TTL = 2 * time.Hour
	}
	if options.CookieName == "" {
		options.CookieName = DefaultCookieName
	}

	return &Manager{options: options, now: time.Now}, nil
}

// Issue returns a token bound to the caller's nonce cookie. A nonce already
// present on r is reused so tokens issued to several open pages stay valid;
// otherwise a fresh nonce cookie is set on w.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request) (string, error) {
	nonce := ""
	if c, err := r.Cookie(m.options.CookieName); err == nil && uuid.Validate(c.Value) == nil {
		nonce = c.Value
	}
	if nonce == "" {
		nonce = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     m.options.CookieName,
			Value:    nonce,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.options.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return m.Sign(nonce)
}

// Sign returns a token for nonce. It is exposed for tools that manage the
// nonce cookie themselves.
func (m *Manager) Sign(nonce string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        nonce,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.options.TTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.options.Secret)
	if err != nil {
		return "", fmt.Errorf("could not sign anti-forgery token: %w", err)
	}

	return signed, nil
}

// CookieName returns the name of the nonce cookie.
func (m *Manager) CookieName() string {
	return m.options.CookieName
}

// Verify checks the token presented with r. Token failures are of kind
// ErrMismatch. A form body that cannot be parsed yields serrors.ErrBadRequest.
func (m *Manager) Verify(r *http.Request) error {
	raw := r.Header.Get(HeaderName)
	if raw == "" {
		token, err := formToken(r)
		if err != nil {
			return err
		}
		raw = token
	}
	if raw == "" {
		return serrors.With(ErrMismatch, "missing anti-forgery token")
	}

	cookie, err := r.Cookie(m.options.CookieName)
	if err != nil || cookie.Value == "" {
		return serrors.With(ErrMismatch, "missing anti-forgery cookie")
	}

	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.options.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return serrors.Wrap(ErrMismatch, err, "invalid anti-forgery token")
	}

	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(cookie.Value)) != 1 {
		return serrors.With(ErrMismatch, "anti-forgery token does not match cookie")
	}

	return nil
}

// formToken reads the token field of a form encoded body. Other bodies are
// left unread.
func formToken(r *http.Request) (string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return "", nil //nolint: nilerr
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		err = r.ParseForm()
	case "multipart/form-data":
		err = r.ParseMultipartForm(maxFormMemory)
	default:
		return "", nil
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", serrors.Wrap(serrors.ErrBadRequest, err, "The request body is too large.")
		}

		return "", serrors.Wrap(serrors.ErrBadRequest, err, "The request body is not valid form data.")
	}

	return r.PostForm.Get(FieldName), nil
}
