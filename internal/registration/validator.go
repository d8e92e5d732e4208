package registration

import (
	"context"
	"fmt"
	"registration/pkg/serrors"
	"registration/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// rule is a single validator tag together with the message reported when the
// tag fails.
type rule struct {
	tag string
	msg string
}

// Validator checks registration input. Every rule of a field is evaluated so
// the caller sees all violations at once; an empty field only reports that
// it is required.
type Validator struct {
	validate *validator.Validate
	storage  storage.AccountStorage
	// maxPasswordBytes is the hasher's input limit; zero means unlimited.
	maxPasswordBytes int

	nameRules     []rule
	emailRules    []rule
	passwordRules []rule
}

// NewValidator creates a Validator that uses storage for the email
// uniqueness rule. A positive maxPasswordBytes rejects passwords the password
// hasher cannot accept (bcrypt stops at 72 bytes).
func NewValidator(storage storage.AccountStorage, maxPasswordBytes int) *Validator {
	return &Validator{
		validate:         validator.New(),
		storage:          storage,
		maxPasswordBytes: maxPasswordBytes,
		nameRules: []rule{
			{tag: fmt.Sprintf("max=%d", NameMaxLength), msg: messageMax(FieldName, NameMaxLength)},
		},
		emailRules: []rule{
			{tag: "email", msg: messageEmail(FieldEmail)},
			{tag: fmt.Sprintf("max=%d", EmailMaxLength), msg: messageMax(FieldEmail, EmailMaxLength)},
		},
		passwordRules: []rule{
			{tag: fmt.Sprintf("min=%d", PasswordMinLength), msg: messageMin(FieldPassword, PasswordMinLength)},
		},
	}
}

// check applies rules to value and records every failure under field. It
// returns true when value passed all of them.
func (v *Validator) check(fields serrors.FieldErrors, field, value string, rules []rule) bool {
	if v.validate.Var(value, "required") != nil {
		fields.Add(field, messageRequired(field))

		return false
	}

	ok := true
	for _, r := range rules {
		if v.validate.Var(value, r.tag) != nil {
			fields.Add(field, r.msg)
			ok = false
		}
	}

	return ok
}

// Validate normalizes in and checks it against the registration rules. It
// returns the normalized input and the collected field errors, which are
// empty when the input is valid. A non-nil error means the uniqueness lookup
// itself failed.
func (v *Validator) Validate(ctx context.Context, in Input) (Input, serrors.FieldErrors, error) {
	in = in.Normalize()
	fields := serrors.FieldErrors{}

	v.check(fields, FieldName, in.Name, v.nameRules)

	if v.check(fields, FieldEmail, in.Email, v.emailRules) {
		exists, err := v.storage.AccountExistsByEmail(ctx, in.Email)
		if err != nil {
			return in, nil, fmt.Errorf("could not check email uniqueness: %w", err)
		}
		if exists {
			fields.Add(FieldEmail, MessageEmailTaken)
		}
	}

	// the confirmation is reported under password, independent of the length rule
	v.check(fields, FieldPassword, in.Password, v.passwordRules)
	if v.maxPasswordBytes > 0 && len(in.Password) > v.maxPasswordBytes {
		fields.Add(FieldPassword, messageMaxBytes(FieldPassword, v.maxPasswordBytes))
	}
	if in.Password != "" && v.validate.VarWithValue(in.Password, in.PasswordConfirmation, "eqfield") != nil {
		fields.Add(FieldPassword, MessagePasswordMismatch)
	}

	return in, fields, nil
}
