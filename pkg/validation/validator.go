// Package validation checks decoded RPC requests with go-playground/validator
// and renders the failures as client-readable messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator reads the same `binding` tags gin uses, and reports fields by
// their json name.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()
	validate.SetTagName("binding")
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: validate}
}

// Struct validates v. Non-struct values are accepted as is. The returned
// slice is nil when v is valid.
func (v *Validator) Struct(value any) []string {
	target := reflect.ValueOf(value)
	for target.Kind() == reflect.Pointer {
		if target.IsNil() {
			return nil
		}
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return nil
	}

	err := v.validate.Struct(value)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if fieldMessages := CustomMessage(e.Field()); fieldMessages != nil {
			if msg, exists := fieldMessages[e.Tag()]; exists {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return messages
}
