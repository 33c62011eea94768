package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"barberbook/pkg/logger"

	"github.com/go-playground/validator/v10"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\-\s()]{5,19}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SignupInput struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,phone_display"`
	Password string `validate:"required,min=8,max=72"`
}

type SigninInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type AccountValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAccountValidator(log *logger.Logger) *AccountValidator {
	v := validator.New()

	if err := v.RegisterValidation("phone_display", validatePhoneDisplay); err != nil {
		log.Fatal("Failed to register 'phone_display' validator", "error", err)
	}

	return &AccountValidator{
		validate: v,
		logger:   log,
	}
}

// validatePhoneDisplay accepts display-formatted phone numbers, e.g.
// "(555) 123-4567" or "+15551234567". The phone is shown to staff on the
// dashboard and dialed from there; it is never parsed.
func validatePhoneDisplay(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func (v *AccountValidator) ValidateSignup(input *SignupInput) error {
	return v.translate(v.validate.Struct(input))
}

func (v *AccountValidator) ValidateSignin(input *SigninInput) error {
	return v.translate(v.validate.Struct(input))
}

func (v *AccountValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", fieldErr.Field())
		case "phone_display":
			message = fmt.Sprintf("%s must be a valid phone number", fieldErr.Field())
		}
		out = append(out, ValidationError{Field: fieldErr.Field(), Message: message})
	}
	return out
}
