package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every caller; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateTodo trims the text fields of in and checks them as new input:
// the task description is required.
// Returns an error wrapping ErrValidation.
func ValidateTodo(in *TodoInput) error {
	NormalizeTodo(in)
	return validateStruct(in)
}

// NormalizeTodo trims the text fields of in. Updates apply it without
// ValidateTodo, since the backend may hold records with no description.
func NormalizeTodo(in *TodoInput) {
	in.Task = strings.TrimSpace(in.Task)
	in.Assignee = strings.TrimSpace(in.Assignee)
	in.Creator = strings.TrimSpace(in.Creator)
}

// ValidateCredentials checks that both login fields are present.
// The password is not trimmed.
func ValidateCredentials(creds *Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	return validateStruct(creds)
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		fe := ve[0]
		return fmt.Errorf("%w: %s", ErrValidation, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "task" {
			return "task description cannot be empty"
		}
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
