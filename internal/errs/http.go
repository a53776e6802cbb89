package errs

import (
	"net/http"
)

func statusCode(status int, code *string) string {
	if code != nil {
		return *code
	}
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code defaults to "BAD_REQUEST" when nil. errors carries per-field
// validation failures and may be nil.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusBadRequest, code),
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusNotFound, code),
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 Conflict HTTPError, used when a unique
// column already holds the submitted value.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusConflict, code),
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic status text; internal details stay in
// the logs.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewInternalServerErrorWithCode is NewInternalServerError with a specific
// machine-readable code, e.g. "USER_DATA_CORRUPTED".
func NewInternalServerErrorWithCode(code string) *HTTPError {
	err := NewInternalServerError()
	err.Code = code
	return err
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}
