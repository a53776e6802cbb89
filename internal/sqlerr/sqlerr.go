// Package sqlerr translates database and row-conversion errors into API errors.
//
// It parses SQLSTATE codes from the pgx driver and converts them into
// client-facing errors (e.g. a unique violation on users.name becomes a
// 409 USER_ALREADY_EXISTS), and turns rows that fail conversion into an
// opaque 500.
package sqlerr
