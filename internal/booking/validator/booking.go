package validator

import (
	"errors"
	"fmt"
	"strings"

	"barberbook/pkg/catalog"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

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

// CreateInput mirrors the booking form: date is an ISO date, time and
// duration are display strings, price keeps its currency formatting.
type CreateInput struct {
	Service  string `validate:"required,max=100"`
	Barber   string `validate:"required,max=100"`
	Date     string `validate:"required,datetime=2006-01-02"`
	Time     string `validate:"required,max=20"`
	Price    string `validate:"required,max=20"`
	Duration string `validate:"omitempty,max=40"`
}

type BookingValidator struct {
	validate *validator.Validate
	catalog  *catalog.Catalog
	logger   *logger.Logger
}

// NewBookingValidator builds a validator against the injected catalog.
// A nil catalog disables the inventory check and only the field-shape rules
// apply.
func NewBookingValidator(cat *catalog.Catalog, log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		catalog:  cat,
		logger:   log,
	}
}

func (v *BookingValidator) ValidateCreate(input *CreateInput) error {
	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if v.catalog != nil {
		if !v.catalog.HasService(input.Service) {
			return ValidationErrors{
				ValidationError{Field: "Service", Message: fmt.Sprintf("unknown service %q", input.Service)},
			}
		}
		if !v.catalog.HasBarber(input.Barber) {
			return ValidationErrors{
				ValidationError{Field: "Barber", Message: fmt.Sprintf("unknown barber %q", input.Barber)},
			}
		}
	}

	return nil
}

// ValidateStatus accepts only the two terminal states. Nothing transitions a
// booking back to upcoming.
func ValidateStatus(status string) error {
	if status != model.StatusCompleted && status != model.StatusCancelled {
		return ValidationErrors{
			ValidationError{
				Field:   "Status",
				Message: fmt.Sprintf("status must be %q or %q", model.StatusCompleted, model.StatusCancelled),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be an ISO date (YYYY-MM-DD)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
