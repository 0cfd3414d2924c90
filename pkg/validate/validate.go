package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var lock = &sync.Mutex{}
var validate *validator.Validate

func getValidator() *validator.Validate {
	if validate == nil {
		lock.Lock()
		defer lock.Unlock()
		if validate == nil {
			validate = validator.New(validator.WithRequiredStructEnabled())
		}
	}
	return validate
}

func ValidateStruct(s interface{}) error {
	return getValidator().Struct(s)
}

func TranslateError(err error) map[string]string {
	errors := make(map[string]string)
	if err == nil {
		return errors
	}
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Error()
	}
	return errors
}

// StructValidator checks a raw configuration payload against the validation
// tags of T before it enters the configuration pipeline.
type StructValidator[T any] struct{}

// Validate decodes raw into T and runs struct validation on the result.
func (StructValidator[T]) Validate(_ context.Context, raw any) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode configuration for validation: %w", err)
	}

	value := new(T)
	if err := json.Unmarshal(payload, value); err != nil {
		return fmt.Errorf("configuration does not match the expected shape: %w", err)
	}

	return ValidateStruct(value)
}
