// Package database owns the PostgreSQL connection pool and schema migrations.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/deppfellow/devi/internal/config"
	loggerConfig "github.com/deppfellow/devi/internal/logger"
)

// Database wraps the pgx pool shared by all repositories.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// multiTracer fans pgx query trace callbacks out to several tracers.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range mt.tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range mt.tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

type queryStartKey struct{}

// slowQueryTracer logs queries that take longer than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
	now       func() time.Time
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, t.now())
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}

	elapsed := t.now().Sub(start)
	if elapsed < t.threshold {
		return
	}

	t.log.Warn().
		Dur("duration", elapsed).
		Dur("threshold", t.threshold).
		Str("command_tag", data.CommandTag.String()).
		Err(data.Err).
		Msg("slow query")
}

// DatabasePingTimeout is how long New waits for the first ping, in seconds.
const DatabasePingTimeout = 10

// DSN builds the postgres connection URL for cfg.
func DSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	// URL-encode the password to keep the DSN valid.
	encodedPassword := url.QueryEscape(cfg.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.User,
		encodedPassword,
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

// New opens the pool, installs query tracing and pings the database.
func New(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	if tracer := newTracer(cfg, logger); tracer != nil {
		pgxPoolConfig.ConnConfig.Tracer = tracer
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return database, nil
}

// newTracer returns the query tracer for cfg, or nil when none applies.
// Every statement is logged in the local environment; slow queries are
// logged everywhere a threshold is configured.
func newTracer(cfg *config.Config, logger *zerolog.Logger) pgx.QueryTracer {
	var tracers []pgx.QueryTracer

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	if cfg.Observability != nil && cfg.Observability.Logging.SlowQueryThreshold > 0 {
		tracers = append(tracers, &slowQueryTracer{
			threshold: cfg.Observability.Logging.SlowQueryThreshold,
			log:       logger,
			now:       time.Now,
		})
	}

	switch len(tracers) {
	case 0:
		return nil
	case 1:
		return tracers[0]
	default:
		return &multiTracer{tracers: tracers}
	}
}

// Close releases every pooled connection.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
