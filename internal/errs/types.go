package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "must be a valid email" }
type FieldError struct {
	// Field is the JSON name of the offending field (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It is serialized directly to JSON. Fields:
//   - Code: machine-friendly error code (e.g. "USER_ALREADY_EXISTS").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: when false in production, the error middleware replaces
//     Message with the generic status text.
//   - Errors: per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors, typically for request bodies.
	Errors []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError. Code and Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
