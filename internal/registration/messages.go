package registration

import (
	"fmt"
	"strings"
)

const (
	// NameMaxLength is the maximum number of characters of a name.
	NameMaxLength = 255
	// EmailMaxLength is the maximum number of characters of an email.
	EmailMaxLength = 255
	// PasswordMinLength is the minimum number of characters of a password.
	PasswordMinLength = 8
)

// MessageEmailTaken is reported under the email key when another account
// already owns the address.
const MessageEmailTaken = "The email has already been taken."

// MessagePasswordMismatch is reported under the password key when the
// confirmation differs from the password.
const MessagePasswordMismatch = "The password field confirmation does not match."

// MessagePasswordTooLong is reported when the password hasher refuses the
// password for its length.
const MessagePasswordTooLong = "The password field is too long."

// humanize turns a field key into its human-readable form.
func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func messageRequired(field string) string {
	return fmt.Sprintf("The %s field is required.", humanize(field))
}

func messageMax(field string, n int) string {
	return fmt.Sprintf("The %s field must not be greater than %d characters.", humanize(field), n)
}

func messageMaxBytes(field string, n int) string {
	return fmt.Sprintf("The %s field must not be greater than %d bytes.", humanize(field), n)
}

func messageMin(field string, n int) string {
	return fmt.Sprintf("The %s field must be at least %d characters.", humanize(field), n)
}

func messageEmail(field string) string {
	return fmt.Sprintf("The %s field must be a valid email address.", humanize(field))
}

// MessageNotString is reported when a field was submitted with a non-string value.
func MessageNotString(field string) string {
	return fmt.Sprintf("The %s field must be a string.", humanize(field))
}
