package v1handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"registration/internal/registration"
)

//go:embed templates/register.html
var templates embed.FS

var registerPage = template.Must(template.ParseFS(templates, "templates/register.html")) //nolint: gochecknoglobals

type pageField struct {
	Name         string
	Label        string
	Type         string
	Autocomplete string
}

type pageData struct {
	Token  string
	Action string
	Fields []pageField
}

var pageFields = []pageField{ //nolint: gochecknoglobals
	{Name: registration.FieldName, Label: "Name", Type: "text", Autocomplete: "name"},
	{Name: registration.FieldEmail, Label: "Email", Type: "email", Autocomplete: "email"},
	{Name: registration.FieldPassword, Label: "Password", Type: "password", Autocomplete: "new-password"},
	{Name: registration.FieldPasswordConfirmation, Label: "Confirm Password", Type: "password", Autocomplete: "new-password"},
}

// RegisterPage handles GET /register by rendering the registration form with
// a fresh anti-forgery token.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Issue(w, r)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("could not issue anti-forgery token: %w", err))

		return
	}

	var buf bytes.Buffer
	err = registerPage.Execute(&buf, pageData{
		Token:  token,
		Action: r.URL.Path,
		Fields: pageFields,
	})
	if err != nil {
		h.writeError(w, r, fmt.Errorf("could not render registration page: %w", err))

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
