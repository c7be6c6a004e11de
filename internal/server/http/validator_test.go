package http

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationDetails_JoinsFailuresCleanly(t *testing.T) {
	type payload struct {
		Name  string `validate:"required"`
		Email string `validate:"required,max=10"`
		Score int    `validate:"omitempty,min=0"`
	}

	err := validate.Struct(payload{Score: -1})
	require.Error(t, err)

	// Separators only between entries, never dangling
	require.Equal(t,
		"Name is required; Email is required; Score must be at least 0",
		validationDetails(err),
	)
}

func TestValidationDetails_SingleFailure(t *testing.T) {
	type payload struct {
		Score int `validate:"min=0"`
	}

	err := validate.Struct(payload{Score: -1})
	require.Error(t, err)
	require.Equal(t, "Score must be at least 0", validationDetails(err))
}
