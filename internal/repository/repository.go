// Package repository handles all interactions with the database.
//
// It contains the SQL statements and the methods to fetch, persist, or
// update data, keeping SQL away from the service layer. Rows are read as flat
// records and converted to domain objects by a serializer.
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so repositories
// work the same inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// quoteTable turns "users" or "schema.users" into a safely quoted identifier.
func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}
