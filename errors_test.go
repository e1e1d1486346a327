package ballast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindError_SingleError(t *testing.T) {
	err := &BindError{FieldErrors: []FieldError{
		{Field: "Port", Key: "PORT", Code: ErrCodeInvalidType, Message: "cannot assign string"},
	}}

	assert.Equal(t, "ballast: binding failed: 1 error\n  - Port [PORT]: invalid_type (cannot assign string)", err.Error())
}

func TestBindError_MultipleErrors(t *testing.T) {
	err := &BindError{FieldErrors: []FieldError{
		{Field: "Host", Key: "DB_HOST", Code: ErrCodeRequired, Message: "key not set"},
		{Field: "Timeout", Key: "TIMEOUT", Code: ErrCodeInvalidType, Message: "bad duration"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "binding failed: 2 errors")
	assert.Contains(t, msg, "Host [DB_HOST]: required")
	assert.Contains(t, msg, "Timeout [TIMEOUT]: invalid_type")
}

func TestBindError_Empty(t *testing.T) {
	err := &BindError{}
	assert.Equal(t, "ballast: binding failed: no errors", err.Error())
}
