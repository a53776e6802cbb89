package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows serves canned rows the way pgx returns them from a pool.
type fakeRows struct {
	fields []pgconn.FieldDescription
	values [][]any
	pos    int
	err    error
	closed bool
}

func newFakeRows(columns []string, values ...[]any) *fakeRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, column := range columns {
		fields[i] = pgconn.FieldDescription{Name: column}
	}
	return &fakeRows{fields: fields, values: values}
}

func (r *fakeRows) Close() { r.closed = true }

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("SELECT " + strconv.Itoa(len(r.values)))
}

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if scanner, ok := dest[0].(pgx.RowScanner); ok {
			return scanner.ScanRow(r)
		}
	}

	values, err := r.Values()
	if err != nil {
		return err
	}
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(values[i]))
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	if r.pos == 0 || r.pos > len(r.values) {
		return nil, errors.New("no current row")
	}
	return r.values[r.pos-1], nil
}

func (r *fakeRows) RawValues() [][]byte { return nil }

func (r *fakeRows) Conn() *pgx.Conn { return nil }

// fakeRow answers QueryRow with a single id or an error.
type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.id
	return nil
}

type call struct {
	sql  string
	args pgx.NamedArgs
}

// fakeDB records every statement and returns the configured results.
type fakeDB struct {
	rows     *fakeRows
	queryErr error
	row      fakeRow
	tag      pgconn.CommandTag
	execErr  error
	calls    []call
}

func (db *fakeDB) record(sql string, args []any) {
	c := call{sql: sql}
	if len(args) == 1 {
		c.args, _ = args[0].(pgx.NamedArgs)
	}
	db.calls = append(db.calls, c)
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.record(sql, args)
	return db.tag, db.execErr
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	db.record(sql, args)
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	if db.rows == nil {
		return newFakeRows(userColumns), nil
	}
	return db.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.record(sql, args)
	return db.row
}

func (db *fakeDB) lastCall() call {
	if len(db.calls) == 0 {
		return call{}
	}
	return db.calls[len(db.calls)-1]
}
