package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	IDs      []string `json:"ids" validate:"omitempty,dive,uuid"`
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "a@x.com", Password: "pw123456"}))
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short", IDs: []string{"x"}})
	require.ErrorIs(t, err, ErrInvalid)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "email", verr.Fields["email"])
	require.Equal(t, "min=8", verr.Fields["password"])
	require.Equal(t, "uuid", verr.Fields["ids[0]"])
	require.Equal(t, "invalid email: email, ids[0]: uuid, password: min=8", err.Error())
}
