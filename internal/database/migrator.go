package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/config"
)

// Migrations ship inside the binary.
//
//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable records the applied migration version.
const VersionTable = "schema_version"

// Migrations returns the embedded migration files, rooted at their directory.
func Migrations() (fs.FS, error) {
	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}
	return subtree, nil
}

// Migrate brings the schema up to the latest embedded migration over a
// dedicated connection.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, DSN(cfg.Database))
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := Migrations()
	if err != nil {
		return err
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
