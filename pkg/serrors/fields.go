package serrors

import (
	"errors"
	"sort"
)

// FieldErrors maps an input field name to the ordered list of human-readable
// messages describing every rule the field violated.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Has reports whether field has at least one message.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// Empty reports whether no field has any message.
func (f FieldErrors) Empty() bool {
	for _, msgs := range f {
		if len(msgs) > 0 {
			return false
		}
	}

	return true
}

// Count returns the total number of messages across all fields.
func (f FieldErrors) Count() int {
	n := 0
	for _, msgs := range f {
		n += len(msgs)
	}

	return n
}

// Keys returns the field names that carry messages, sorted.
func (f FieldErrors) Keys() []string {
	keys := make([]string, 0, len(f))
	for k, msgs := range f {
		if len(msgs) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys
}

// Merge appends every message of other into f.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

// Validation constructs an ErrValidation error carrying the given field messages.
func Validation(fields FieldErrors) *Error {
	return &Error{kind: ErrValidation, msg: "validation failed", fields: fields}
}

// FieldsOf extracts the FieldErrors carried by err, if any.
func FieldsOf(err error) (FieldErrors, bool) {
	var e *Error
	if !errors.As(err, &e) || e == nil || e.fields == nil {
		return nil, false
	}

	return e.fields, true
}
