package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/deppfellow/devi/internal/errs"
	"github.com/deppfellow/devi/internal/serializer"
)

var constraintColumnPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	var raw *pgconn.PgError
	if errors.As(err, &raw) {
		return MapCode(raw.Code)
	}
	return Other
}

// ConvertPgError converts a raw server error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds <DOMAIN>_<ACTION>, e.g. users + UniqueViolation
// gives USER_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	return fmt.Sprintf("%s_%s", domainOf(tableName), actionOf(errType))
}

func domainOf(tableName string) string {
	if i := strings.LastIndexByte(tableName, '.'); i >= 0 {
		tableName = tableName[i+1:]
	}
	if tableName == "" {
		return "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}
	return domain
}

func actionOf(errType Code) string {
	switch errType {
	case ForeignKeyViolation:
		return "NOT_FOUND"
	case UniqueViolation:
		return "ALREADY_EXISTS"
	case NotNullViolation:
		return "REQUIRED"
	case CheckViolation:
		return "INVALID"
	default:
		return "ERROR"
	}
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		column := sqlErr.ColumnName
		if column == "" {
			column = extractColumnForUniqueViolation(sqlErr.TableName, sqlErr.ConstraintName)
		}
		if column == "" {
			return fmt.Sprintf("A %s with this identifier already exists", entityName)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName, humanizeText(column))

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a "<entity>_id" column, then the singular table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if i := strings.LastIndexByte(tableName, '.'); i >= 0 {
		tableName = tableName[i+1:]
	}
	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText turns "public_key" into "Public Key".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a constraint name.
//
// Supported conventions:
//
//	unique_<table>_<column>   unique_users_email -> email
//	<table>_<column>_key      users_public_key_key -> public_key
//
// When the table is unknown, the last word before _key is used.
func extractColumnForUniqueViolation(tableName, constraintName string) string {
	if constraintName == "" {
		return ""
	}

	name := constraintName
	if rest, ok := strings.CutPrefix(name, "unique_"); ok {
		if tableName != "" {
			if column, ok := strings.CutPrefix(rest, tableName+"_"); ok && column != "" {
				return column
			}
		}
		if parts := strings.Split(rest, "_"); len(parts) >= 2 {
			return parts[len(parts)-1]
		}
		return ""
	}

	if tableName != "" {
		if rest, ok := strings.CutPrefix(name, tableName+"_"); ok {
			for _, suffix := range []string{"_key", "_ukey"} {
				if column, ok := strings.CutSuffix(rest, suffix); ok && column != "" {
					return column
				}
			}
		}
	}

	if matches := constraintColumnPattern.FindStringSubmatch(name); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// HandleError converts a database error into an *errs.HTTPError. The entity
// is named after the table recorded by WithTable, if any.
func HandleError(err error) error {
	var tagged *tableError
	if errors.As(err, &tagged) {
		return HandleEntityError(tagged.table, err)
	}
	return HandleEntityError("", err)
}

// HandleEntityError is HandleError with a fallback table name, used when the
// error itself does not say which table it came from (no rows, or a row that
// failed conversion).
//
// Mapping:
//   - *errs.HTTPError: returned unchanged
//   - unique violation: 409 <ENTITY>_ALREADY_EXISTS
//   - foreign key, not null, check violations: 400
//   - no rows: 404
//   - serializer conversion or mapping failure: 500 <ENTITY>_DATA_CORRUPTED
//   - anything else: 500
func HandleEntityError(table string, err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		if sqlErr.TableName == "" {
			sqlErr.TableName = table
		}

		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case UniqueViolation:
			return errs.NewConflictError(userMessage, true, &errorCode)

		case ForeignKeyViolation, CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		default:
			return errs.NewInternalServerError()
		}
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		code := domainOf(table) + "_NOT_FOUND"
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(table, "")), true, &code)

	case errors.Is(err, serializer.ErrConversion), errors.Is(err, serializer.ErrMapping):
		return errs.NewInternalServerErrorWithCode(domainOf(table) + "_DATA_CORRUPTED")
	}

	return errs.NewInternalServerError()
}

// tableError tags an error with the table it concerns.
type tableError struct {
	table string
	err   error
}

func (e *tableError) Error() string { return e.err.Error() }

func (e *tableError) Unwrap() error { return e.err }

// WithTable records which table err concerns, so HandleError can name the
// entity when the error itself does not.
func WithTable(err error, table string) error {
	if err == nil {
		return nil
	}
	return &tableError{table: table, err: err}
}
