package v1handler

import (
	"fmt"
	"net/http"
	"registration/internal/registration"
	"registration/pkg/domain"
	"registration/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// fieldOrder is the order fields are reported in.
var fieldOrder = []string{ //nolint: gochecknoglobals
	registration.FieldName,
	registration.FieldEmail,
	registration.FieldPassword,
	registration.FieldPasswordConfirmation,
}

// orderedKeys returns the keys of fields with known fields first, in form
// order, followed by any others sorted.
func orderedKeys(fields serrors.FieldErrors) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fieldOrder))
	for _, k := range fieldOrder {
		seen[k] = true
		if fields.Has(k) {
			keys = append(keys, k)
		}
	}
	for _, k := range fields.Keys() {
		if !seen[k] {
			keys = append(keys, k)
		}
	}

	return keys
}

// summarize builds the top-level message of a validation failure: the first
// message followed by the count of the remaining ones.
func summarize(fields serrors.FieldErrors) string {
	keys := orderedKeys(fields)
	if len(keys) == 0 {
		return "The given data was invalid."
	}

	first := fields[keys[0]][0]
	switch rest := fields.Count() - 1; rest {
	case 0:
		return first
	case 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

// decodeInput decodes a JSON registration body. Missing and null fields
// decode as empty strings; fields with a non-string value are returned as
// field errors. Unknown keys are ignored.
func decodeInput(data []byte) (registration.Input, serrors.FieldErrors, error) {
	var in registration.Input
	invalid := serrors.FieldErrors{}

	targets := map[string]*string{
		registration.FieldName:                 &in.Name,
		registration.FieldEmail:                &in.Email,
		registration.FieldPassword:             &in.Password,
		registration.FieldPasswordConfirmation: &in.PasswordConfirmation,
	}

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return in, nil, errors.New("body must be a JSON object")
	}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		target, ok := targets[key]
		if !ok {
			return d.Skip()
		}

		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			if err != nil {
				return errors.Wrapf(err, "decode %q", key)
			}
			*target = s

			return nil
		case jx.Null:
			return d.Null()
		default:
			invalid.Add(key, registration.MessageNotString(key))

			return d.Skip()
		}
	})
	if err != nil {
		return in, nil, errors.Wrap(err, "decode registration")
	}

	return in, invalid, nil
}

func encodeError(body ErrorBody) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("message")
	e.Str(body.Message)
	if body.Errors != nil {
		e.FieldStart("errors")
		e.ObjStart()
		for _, k := range orderedKeys(body.Errors) {
			e.FieldStart(k)
			e.ArrStart()
			for _, msg := range body.Errors[k] {
				e.Str(msg)
			}
			e.ArrEnd()
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	return e.Bytes()
}

// MessageRegistered is the message of a successful registration.
const MessageRegistered = "Registration completed."

func encodeRegistered(account *domain.Account) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("message")
	e.Str(MessageRegistered)
	e.FieldStart("user")
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(int64(account.ID))
	e.FieldStart("name")
	e.Str(account.Name)
	e.FieldStart("email")
	e.Str(account.Email)
	e.ObjEnd()
	e.ObjEnd()

	return e.Bytes()
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
