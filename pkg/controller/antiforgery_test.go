package controller_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"registration/pkg/controller"
	"registration/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type verifierFunc func(r *http.Request) error

func (f verifierFunc) Verify(r *http.Request) error { return f(r) }

func TestWithAntiForgery_SafeMethodSkipsCheck(t *testing.T) {
	verifier := verifierFunc(func(*http.Request) error {
		t.Fatal("verifier should not be called for GET")

		return nil
	})
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	controller.WithAntiForgery(verifier, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWithAntiForgery_Rejects(t *testing.T) {
	verifier := verifierFunc(func(*http.Request) error { return errors.New("mismatch") })
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	rec := httptest.NewRecorder()
	controller.WithAntiForgery(verifier, next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))

	require.Equal(t, controller.StatusTokenMismatch, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"message":"CSRF token mismatch."}`, rec.Body.String())
}

func TestWithAntiForgery_Accepts(t *testing.T) {
	verifier := verifierFunc(func(*http.Request) error { return nil })
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })

	rec := httptest.NewRecorder()
	controller.WithAntiForgery(verifier, next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestWithAntiForgery_UnreadableBody(t *testing.T) {
	verifier := verifierFunc(func(*http.Request) error {
		return serrors.Wrap(serrors.ErrBadRequest, errors.New("http: request body too large"), "The request body is too large.")
	})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	rec := httptest.NewRecorder()
	controller.WithAntiForgery(verifier, next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"message":"The request body is too large."}`, rec.Body.String())
}
