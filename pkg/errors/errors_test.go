package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError(map[string]string{
		"lname": "This field is required.",
		"fname": "Only letters and spaces allowed.",
	})

	assert.Equal(t, "validation failed: fname - Only letters and spaces allowed., lname - This field is required.", err.Error())
	assert.Equal(t, "This field is required.", err.Field("lname"))
	assert.Empty(t, err.Field("email"))
	assert.Equal(t, "validation failed", NewValidationError(nil).Error())
}

func TestAsValidation(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", NewValidationError(map[string]string{"email": "Invalid email address."}))

	ve, ok := AsValidation(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Invalid email address.", ve.Field("email"))

	_, ok = AsValidation(errors.New("boom"))
	assert.False(t, ok)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewInternalError("failed to create person", cause)

	assert.Equal(t, "failed to create person: disk I/O error", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", NewInternalError("internal server error", nil).Error())
}
