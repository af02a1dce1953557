package dto

import (
	"regexp"

	structValidator "github.com/go-playground/validator/v10"
)

// usernamePattern admits word characters only.
var usernamePattern = regexp.MustCompile(`^\w+$`)

// NewValidator returns a validator with the "username" rule registered.
func NewValidator() (*structValidator.Validate, error) {
	validator := structValidator.New(structValidator.WithRequiredStructEnabled())
	if err := validator.RegisterValidation("username", func(fl structValidator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	return validator, nil
}
