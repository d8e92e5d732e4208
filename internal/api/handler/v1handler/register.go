package v1handler

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"registration/internal/registration"
	"registration/pkg/serrors"
)

// Register handles POST /register. It accepts JSON and form encoded bodies
// and answers 201 with the new user, or 422 with field errors.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	account, err := h.registrar.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, encodeRegistered(account))
}

func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (registration.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return registration.Input{}, serrors.Wrap(serrors.ErrUnsupportedMedia, err, "invalid content type")
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		return readJSON(r)
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return readForm(r, mediaType, h.maxBodyBytes)
	default:
		return registration.Input{}, serrors.With(serrors.ErrUnsupportedMedia, "unsupported content type %q", mediaType)
	}
}

func readJSON(r *http.Request) (registration.Input, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return registration.Input{}, bodyError(err)
	}
	// an empty body is an empty submission, not a malformed one
	if len(bytes.TrimSpace(data)) == 0 {
		return registration.Input{}, nil
	}

	in, invalid, err := decodeInput(data)
	if err != nil {
		return registration.Input{}, serrors.Wrap(serrors.ErrBadRequest, err, "The request body is not valid JSON.")
	}
	if !invalid.Empty() {
		return registration.Input{}, serrors.Validation(invalid)
	}

	return in, nil
}

func readForm(r *http.Request, mediaType string, maxMemory int64) (registration.Input, error) {
	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return registration.Input{}, bodyError(err)
	}

	return registration.Input{
		Name:                 r.PostForm.Get(registration.FieldName),
		Email:                r.PostForm.Get(registration.FieldEmail),
		Password:             r.PostForm.Get(registration.FieldPassword),
		PasswordConfirmation: r.PostForm.Get(registration.FieldPasswordConfirmation),
	}, nil
}

func bodyError(err error) error {
	var (
		maxErr    *http.MaxBytesError
		escapeErr url.EscapeError
	)
	switch {
	case errors.As(err, &maxErr):
		return serrors.Wrap(serrors.ErrBadRequest, err, "The request body is too large.")
	case errors.As(err, &escapeErr):
		return serrors.Wrap(serrors.ErrBadRequest, err, "The request body is not valid form data.")
	}

	return serrors.Wrap(serrors.ErrBadRequest, err, "The request body could not be read.")
}
