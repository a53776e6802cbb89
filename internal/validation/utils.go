package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/devi/internal/errs"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - Define a request struct with validator tags (`validate:"required,email"`)
//   - Implement Validate() error that runs Struct(req)
//   - Return validator.ValidationErrors, or CustomValidationErrors for rules
//     tags cannot express
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in its errors are the
// json, query or param names clients send, not Go field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(wireName)
	})
	return validate
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "query", "param"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// BindAndValidate binds request data into payload and validates it.
//
// payload must be a pointer to a struct. Malformed bodies and failed rules
// both become a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindMessage(err), false, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}

	return nil
}

func bindMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return http.StatusText(http.StatusBadRequest)
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Error: err.Error()}}
	}

	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: e.Field(),
			Error: messageFor(e),
		})
	}

	return "Validation failed", fieldErrors
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"

	case "min":
		// For strings min is a length, for numbers a value.
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())

	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "email":
		return "must be a valid email address"

	case "printascii":
		return "must contain printable ASCII characters only"

	default:
		if err.Param() != "" {
			return fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
		}
		return fmt.Sprintf("%s: %s", err.Field(), err.Tag())
	}
}
