package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// ValidationError describes one failed field rule.
type ValidationError struct {
	Field   string      `json:"field"`
	Rule    string      `json:"rule"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors aggregates field failures; it is an error itself so
// services can return it directly.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validator wraps go-playground validation with the service's custom rules.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerCustomRules()

	return v
}

// Validate validates a struct and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts validator errors to the service's type.
func ToValidationErrors(err error) ValidationErrors {
	var invalidErr *validator.InvalidValidationError
	if errors.As(err, &invalidErr) {
		return ValidationErrors{{Field: "request", Rule: "struct", Message: "invalid request structure"}}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Rule: "unknown", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Rule:    fe.Tag(),
			Message: messageFor(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "role_name":
		return "is not a known role"
	case "campus_code":
		return "must be 2-10 uppercase letters or digits"
	case "semester":
		return "must look like 2025A or 2025-FALL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

var (
	campusCodeRe = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
	semesterRe   = regexp.MustCompile(`^\d{4}(-?[A-Z]{1,6}|[A-C])$`)
)

func (v *Validator) registerCustomRules() {
	// role_name enforces the closed role enumeration at the API edge
	_ = v.validate.RegisterValidation("role_name", func(fl validator.FieldLevel) bool {
		return models.IsValidRoleName(models.RoleName(fl.Field().String()))
	})

	_ = v.validate.RegisterValidation("campus_code", func(fl validator.FieldLevel) bool {
		return campusCodeRe.MatchString(fl.Field().String())
	})

	_ = v.validate.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		return semesterRe.MatchString(fl.Field().String())
	})
}
