package v1handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"registration/internal/api/handler/v1handler"
	"testing"

	"github.com/stretchr/testify/require"
)

type issuerFunc func(w http.ResponseWriter, r *http.Request) (string, error)

func (f issuerFunc) Issue(w http.ResponseWriter, r *http.Request) (string, error) { return f(w, r) }

func TestRegisterPage_RendersTokenAndFields(t *testing.T) {
	issuer := issuerFunc(func(w http.ResponseWriter, r *http.Request) (string, error) {
		http.SetCookie(w, &http.Cookie{Name: "csrf_nonce", Value: "nonce"})

		return "tok<en>", nil
	})
	h := v1handler.New(v1handler.Deps{Tokens: issuer}, v1handler.Options{})

	rec := httptest.NewRecorder()
	h.RegisterPage(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.Len(t, rec.Result().Cookies(), 1)

	body := rec.Body.String()
	require.Contains(t, body, `<meta name="csrf-token" content="tok&lt;en&gt;">`)
	for _, field := range []string{"name", "email", "password", "password_confirmation"} {
		require.Contains(t, body, `name="`+field+`"`)
	}
}

func TestRegisterPage_IssueFailure(t *testing.T) {
	issuer := issuerFunc(func(http.ResponseWriter, *http.Request) (string, error) {
		return "", errors.New("signing failed")
	})
	h := v1handler.New(v1handler.Deps{Tokens: issuer}, v1handler.Options{})

	rec := httptest.NewRecorder()
	h.RegisterPage(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Server Error"}`, rec.Body.String())
}
