package serrors_test

import (
	"errors"
	"fmt"
	"registration/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldErrors_AddAndCount(t *testing.T) {
	f := serrors.FieldErrors{}
	require.True(t, f.Empty())

	f.Add("password", "too short")
	f.Add("password", "does not match")
	f.Add("name", "required")

	require.False(t, f.Empty())
	require.True(t, f.Has("password"))
	require.False(t, f.Has("email"))
	require.Equal(t, 3, f.Count())
	require.Equal(t, []string{"name", "password"}, f.Keys())
	require.Equal(t, []string{"too short", "does not match"}, f["password"])
}

func TestFieldErrors_Merge(t *testing.T) {
	f := serrors.FieldErrors{"email": {"invalid"}}
	f.Merge(serrors.FieldErrors{"email": {"taken"}, "name": {"required"}})

	require.Equal(t, []string{"invalid", "taken"}, f["email"])
	require.Equal(t, []string{"required"}, f["name"])
}

func TestValidation_KindAndFields(t *testing.T) {
	fields := serrors.FieldErrors{"name": {"required"}}
	err := serrors.Validation(fields)

	require.ErrorIs(t, err, serrors.ErrValidation)
	require.NotErrorIs(t, err, serrors.ErrConflict)
	require.Equal(t, fields, err.Fields())

	wrapped := fmt.Errorf("could not register: %w", err)
	got, ok := serrors.FieldsOf(wrapped)
	require.True(t, ok)
	require.Equal(t, fields, got)
}

func TestFieldsOf_NoFields(t *testing.T) {
	_, ok := serrors.FieldsOf(errors.New("plain"))
	require.False(t, ok)

	_, ok = serrors.FieldsOf(serrors.With(serrors.ErrBadRequest, "bad"))
	require.False(t, ok)
}
