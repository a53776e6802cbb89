package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/devi/internal/errs"
	"github.com/deppfellow/devi/internal/serializer"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestMapCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, Other, MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityWarning, MapSeverity("warning"))
	assert.Equal(t, SeverityError, MapSeverity("bogus"))
}

func TestConvertPgErrorUnwraps(t *testing.T) {
	t.Parallel()

	src := &pgconn.PgError{Code: "23505", Severity: "ERROR", Message: "duplicate key", TableName: "users"}
	converted := ConvertPgError(src)

	assert.Equal(t, UniqueViolation, converted.Code)
	assert.Equal(t, "ERROR 23505: duplicate key", converted.Error())
	assert.ErrorIs(t, converted, src)
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("create user: %w", converted)))
	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("create user: %w", src)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestHandleUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		constraint string
		message    string
	}{
		{"name", "users_name_key", "A User with this Name already exists"},
		{"multi word column", "users_public_key_key", "A User with this Public Key already exists"},
		{"unique prefix", "unique_users_email", "A User with this Email already exists"},
		{"unknown", "", "A User with this identifier already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleError(fmt.Errorf("create user: %w", &pgconn.PgError{
				Code:           "23505",
				TableName:      "users",
				ConstraintName: tt.constraint,
			}))

			httpErr := asHTTPError(t, err)
			assert.Equal(t, http.StatusConflict, httpErr.Status)
			assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.True(t, httpErr.Override)
		})
	}
}

func TestHandleNotNullViolation(t *testing.T) {
	t.Parallel()

	err := HandleError(&pgconn.PgError{Code: "23502", TableName: "users", ColumnName: "email"})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Email is required", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "is required"}}, httpErr.Errors)
}

func TestHandleEntityErrorFallbackTable(t *testing.T) {
	t.Parallel()

	err := HandleEntityError("auth.users", &pgconn.PgError{Code: "23514", ColumnName: "email"})
	httpErr := asHTTPError(t, err)
	assert.Equal(t, "USER_INVALID", httpErr.Code)
	assert.Equal(t, "The Email value does not meet required conditions", httpErr.Message)

	err = HandleEntityError("users", fmt.Errorf("find: %w", pgx.ErrNoRows))
	httpErr = asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "USER_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "User not found", httpErr.Message)
}

func TestHandleConversionErrorIsOpaque(t *testing.T) {
	t.Parallel()

	_, decodeErr := serializer.IntegerStrategy{}.Decode("abc")
	require.Error(t, decodeErr)

	err := HandleEntityError("users", fmt.Errorf("find user: %w", decodeErr))
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "USER_DATA_CORRUPTED", httpErr.Code)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
	assert.NotContains(t, httpErr.Message, "abc")
}

func TestHandleErrorPassthroughAndFallback(t *testing.T) {
	t.Parallel()

	assert.NoError(t, HandleError(nil))

	original := errs.NewNotFoundError("User not found", true, nil)
	assert.Same(t, original, HandleError(original))

	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)

	httpErr = asHTTPError(t, HandleError(&pgconn.PgError{Code: "40P01"}))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", httpErr.Code)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "public_key", extractColumnForUniqueViolation("users", "users_public_key_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("", "accounts_email_ukey"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("", "unique_users_email"))
	assert.Empty(t, extractColumnForUniqueViolation("users", "users_pkey"))
}

func TestWithTableNamesEntity(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WithTable(nil, "users"))

	_, decodeErr := serializer.DateTimeStrategy{}.Decode("yesterday")
	err := WithTable(fmt.Errorf("list users: %w", decodeErr), "users")
	assert.ErrorIs(t, err, serializer.ErrConversion)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, "USER_DATA_CORRUPTED", httpErr.Code)

	httpErr = asHTTPError(t, HandleError(decodeErr))
	assert.Equal(t, "RECORD_DATA_CORRUPTED", httpErr.Code)
}
