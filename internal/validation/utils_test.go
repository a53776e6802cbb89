package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/devi/internal/errs"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=5"`
	Email    string `json:"email" validate:"required,email"`
	Attempts int    `json:"attempts" validate:"min=1"`
}

func (r *signupRequest) Validate() error { return Struct(r) }

type pairRequest struct {
	A string `query:"a"`
	B string `query:"b"`
}

func (r *pairRequest) Validate() error {
	if r.A != "" && r.B != "" {
		return CustomValidationErrors{{Field: "b", Message: "cannot be combined with a"}}
	}
	return nil
}

func bind(t *testing.T, method, target, body string, payload Validatable) error {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())
	return BindAndValidate(c, payload)
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestBindAndValidateSuccess(t *testing.T) {
	t.Parallel()

	var req signupRequest
	err := bind(t, http.MethodPost, "/", `{"name":"amy","email":"amy@example.com","attempts":2}`, &req)
	require.NoError(t, err)
	assert.Equal(t, "amy", req.Name)
	assert.Equal(t, 2, req.Attempts)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	t.Parallel()

	var req signupRequest
	err := bind(t, http.MethodPost, "/", `{"name":"too long name","email":"nope","attempts":0}`, &req)

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "must not exceed 5 characters"},
		{Field: "email", Error: "must be a valid email address"},
		{Field: "attempts", Error: "must be at least 1"},
	}, httpErr.Errors)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	t.Parallel()

	var req signupRequest
	err := bind(t, http.MethodPost, "/", `{"name":`, &req)

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	t.Parallel()

	var req pairRequest
	err := bind(t, http.MethodGet, "/?a=1&b=2", "", &req)

	httpErr := asHTTPError(t, err)
	assert.Equal(t, []errs.FieldError{{Field: "b", Error: "cannot be combined with a"}}, httpErr.Errors)

	req = pairRequest{}
	require.NoError(t, bind(t, http.MethodGet, "/?a=1", "", &req))
	assert.Equal(t, "1", req.A)
}
