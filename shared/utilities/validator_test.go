package utilities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidatorStruct(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	fields, err := v.Struct(testPayload{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	require.Nil(t, fields)

	fields, err = v.Struct(testPayload{Email: "not-an-email"})
	require.NoError(t, err)
	require.Equal(t, "email must be a valid email address", fields["email"])
	require.Equal(t, "password is a required field", fields["password"])
}

func TestValidatorStructNotAStruct(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	_, err = v.Struct("nope")
	require.Error(t, err)
}
