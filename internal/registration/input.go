package registration

import "strings"

// Field names used as keys of the field-level error mapping. They match the
// request body keys.
const (
	FieldName                 = "name"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
)

// Input holds the raw fields submitted with a registration request.
type Input struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Normalize trims surrounding whitespace from name and email. Passwords are
// kept byte-for-byte.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	return in
}
