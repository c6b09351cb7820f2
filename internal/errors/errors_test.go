package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	autherror "github.com/danurwenda/identity-service/internal/errors"
)

func TestValidationError(t *testing.T) {
	t.Run("empty has no errors", func(t *testing.T) {
		vErr := autherror.NewValidationError()
		assert.False(t, vErr.HasErrors())
	})

	t.Run("fields render sorted", func(t *testing.T) {
		vErr := autherror.NewValidationError()
		vErr.Add("password", "must be 8-128 characters")
		vErr.Add("email", "must be a valid email of at most 254 characters")

		assert.True(t, vErr.HasErrors())
		assert.Equal(t,
			"validation failed: email: must be a valid email of at most 254 characters; password: must be 8-128 characters",
			vErr.Error())
	})

	t.Run("last message per field wins", func(t *testing.T) {
		vErr := autherror.NewValidationError()
		vErr.Add("email", "first")
		vErr.Add("email", "second")

		assert.Equal(t, "validation failed: email: second", vErr.Error())
	})
}
