package sqlerr

import (
	"fmt"
	"strings"
)

// Code is the category of a database error.
type Code string

const (
	Other                Code = "other"
	NotNullViolation     Code = "not_null_violation"
	ForeignKeyViolation  Code = "foreign_key_violation"
	UniqueViolation      Code = "unique_violation"
	CheckViolation       Code = "check_violation"
	SerializationFailure Code = "serialization_failure"
	DeadlockDetected     Code = "deadlock_detected"
	UndefinedTable       Code = "undefined_table"
	UndefinedColumn      Code = "undefined_column"
)

// SQLSTATE values, see https://www.postgresql.org/docs/current/errcodes-appendix.html
var codes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"40001": SerializationFailure,
	"40P01": DeadlockDetected,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
}

// MapCode maps a SQLSTATE to a Code. Unknown states map to Other.
func MapCode(sqlState string) Code {
	if code, ok := codes[sqlState]; ok {
		return code
	}
	return Other
}

// Severity is the severity reported by the server.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity normalizes a severity string. Unknown values map to SeverityError.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}

// Error is a driver error with its SQLSTATE already categorized.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
