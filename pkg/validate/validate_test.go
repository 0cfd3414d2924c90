package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceConfig struct {
	Name string `json:"name" validate:"required"`
	Port int    `json:"port" validate:"required,min=1,max=65535"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(&serviceConfig{Name: "svc", Port: 8080})
	assert.NoError(t, err)

	err = ValidateStruct(&serviceConfig{Port: 8080})
	assert.Error(t, err)
}

func TestTranslateError(t *testing.T) {
	err := ValidateStruct(&serviceConfig{})
	require.Error(t, err)

	fields := TranslateError(err)
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Port")

	assert.Empty(t, TranslateError(nil))
}

func TestStructValidatorAcceptsValidPayload(t *testing.T) {
	v := StructValidator[serviceConfig]{}

	err := v.Validate(context.Background(), map[string]any{
		"name": "svc",
		"port": float64(8080),
	})
	assert.NoError(t, err)
}

func TestStructValidatorRejectsMissingFields(t *testing.T) {
	v := StructValidator[serviceConfig]{}

	err := v.Validate(context.Background(), map[string]any{"port": float64(8080)})
	assert.Error(t, err)
}

func TestStructValidatorRejectsWrongShape(t *testing.T) {
	v := StructValidator[serviceConfig]{}

	err := v.Validate(context.Background(), []any{"not", "an", "object"})
	assert.Error(t, err)
}
