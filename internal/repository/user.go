package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/model"
	"github.com/deppfellow/devi/internal/serializer"
)

// ErrNotPersisted is returned by Update and Delete for a user without an id.
var ErrNotPersisted = errors.New("user has not been persisted")

// userWriteColumns are the columns bound on insert and update. id is never
// written: storage assigns it.
var userWriteColumns = []string{
	"name", "email", "password", "public_key", "private_key", "date_created", "date_modified",
}

// UserSerializer converts users table rows: integer ids and fixed-layout
// timestamps, every other column copied as is.
func UserSerializer() serializer.Serializer {
	return serializer.New().
		WithStrategy("id", serializer.IntegerStrategy{}).
		WithStrategy("date_created", serializer.DateTimeStrategy{}).
		WithStrategy("date_modified", serializer.DateTimeStrategy{})
}

type userQueries struct {
	findByID        string
	findByName      string
	findByPublicKey string
	findAll         string
	insert          string
	update          string
	delete          string
}

func newUserQueries(table string) userQueries {
	t := quoteTable(table)

	placeholders := make([]string, len(userWriteColumns))
	assignments := make([]string, len(userWriteColumns))
	for i, column := range userWriteColumns {
		placeholders[i] = "@" + column
		assignments[i] = column + " = @" + column
	}

	return userQueries{
		findByID:        fmt.Sprintf("SELECT * FROM %s WHERE id = @id", t),
		findByName:      fmt.Sprintf("SELECT * FROM %s WHERE name = @name", t),
		findByPublicKey: fmt.Sprintf("SELECT * FROM %s WHERE public_key = @public_key", t),
		findAll:         fmt.Sprintf("SELECT * FROM %s ORDER BY date_modified DESC", t),
		insert: fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (DEFAULT, %s) RETURNING id",
			t, strings.Join(userWriteColumns, ", "), strings.Join(placeholders, ", ")),
		update: fmt.Sprintf("UPDATE %s SET %s WHERE id = @id",
			t, strings.Join(assignments, ", ")),
		delete: fmt.Sprintf("DELETE FROM %s WHERE id = @id", t),
	}
}

// UserRepository stores users in a single table.
type UserRepository struct {
	db         DBTX
	table      string
	queries    userQueries
	serializer serializer.Serializer
	log        *zerolog.Logger
}

// NewUserRepository returns a repository over table. table may be schema
// qualified ("auth.users"); it is quoted, never interpolated raw.
func NewUserRepository(db DBTX, table string, logger *zerolog.Logger) *UserRepository {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	repoLogger := logger.With().
		Str("repository", "users").
		Str("table", table).
		Logger()

	return &UserRepository{
		db:         db,
		table:      table,
		queries:    newUserQueries(table),
		serializer: UserSerializer(),
		log:        &repoLogger,
	}
}

// Find gets a user by id. found is false when no row matches.
func (r *UserRepository) Find(ctx context.Context, id int64) (model.User, bool, error) {
	return r.findOne(ctx, r.queries.findByID, pgx.NamedArgs{"id": id})
}

// FindByName gets a user by name.
func (r *UserRepository) FindByName(ctx context.Context, name string) (model.User, bool, error) {
	return r.findOne(ctx, r.queries.findByName, pgx.NamedArgs{"name": name})
}

// FindByPublicKey gets a user by public key.
func (r *UserRepository) FindByPublicKey(ctx context.Context, publicKey string) (model.User, bool, error) {
	return r.findOne(ctx, r.queries.findByPublicKey, pgx.NamedArgs{"public_key": publicKey})
}

// FindAll gets every user, most recently modified first.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, r.queries.findAll)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect users: %w", err)
	}

	users := make([]model.User, 0, len(records))
	for _, record := range records {
		user, err := r.decode(record)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// Create inserts user and sets its storage-assigned id.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("create user: user is nil")
	}

	args, err := r.bindArgs(*user)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, r.queries.insert, args).Scan(&id); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	user.ID = &id
	return nil
}

// Update replaces every column of the row with user's id.
func (r *UserRepository) Update(ctx context.Context, user model.User) error {
	if !user.IsPersisted() {
		return fmt.Errorf("update user: %w", ErrNotPersisted)
	}

	args, err := r.bindArgs(user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	args["id"] = *user.ID

	tag, err := r.db.Exec(ctx, r.queries.update, args)
	if err != nil {
		return fmt.Errorf("update user %d: %w", *user.ID, err)
	}

	if tag.RowsAffected() == 0 {
		r.log.Warn().Int64("user_id", *user.ID).Msg("update matched no rows")
	}
	return nil
}

// Delete removes the row with user's id.
func (r *UserRepository) Delete(ctx context.Context, user model.User) error {
	if !user.IsPersisted() {
		return fmt.Errorf("delete user: %w", ErrNotPersisted)
	}

	tag, err := r.db.Exec(ctx, r.queries.delete, pgx.NamedArgs{"id": *user.ID})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", *user.ID, err)
	}

	if tag.RowsAffected() == 0 {
		r.log.Warn().Int64("user_id", *user.ID).Msg("delete matched no rows")
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, args pgx.NamedArgs) (model.User, bool, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return model.User{}, false, fmt.Errorf("query user: %w", err)
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("collect user: %w", err)
	}

	user, err := r.decode(record)
	if err != nil {
		return model.User{}, false, err
	}
	return user, true, nil
}

// decode converts one row. Conversion failures are data-integrity faults:
// they are logged here and returned unchanged.
func (r *UserRepository) decode(record map[string]any) (model.User, error) {
	user, err := serializer.Decode[model.User](r.serializer, serializer.Record(record))
	if err == nil {
		return user, nil
	}

	event := r.log.Error().Err(err)

	var convErr *serializer.ConversionError
	if errors.As(err, &convErr) {
		event = event.Str("field", convErr.Field).Str("strategy", convErr.Strategy)
	}

	var mapErr *serializer.MappingError
	if errors.As(err, &mapErr) {
		event = event.Str("field", mapErr.Field)
	}

	event.Msg("failed to decode user row")
	return model.User{}, err
}

func (r *UserRepository) bindArgs(user model.User) (pgx.NamedArgs, error) {
	record, err := r.serializer.Serialize(user)
	if err != nil {
		return nil, err
	}

	args := make(pgx.NamedArgs, len(userWriteColumns)+1)
	for _, column := range userWriteColumns {
		args[column] = record[column]
	}
	return args, nil
}
