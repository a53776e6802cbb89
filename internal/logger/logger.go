// Package logger configures the application's zerolog loggers.
//
// It builds the main structured logger from the observability config and a
// dedicated logger for pgx query tracing.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/deppfellow/devi/internal/config"
)

// NewLogger builds the application logger writing to stdout.
func NewLogger(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// NewLoggerWithWriter builds the application logger writing to w. Outside
// production a console format may be selected for readability.
func NewLoggerWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Logging.Format == "console" && !cfg.IsProduction() {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// NewPgxLogger returns the logger pgx query traces are written to.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Str("component", "database").
		Logger()
}

// GetPgxTraceLogLevel maps a zerolog level to the matching tracelog level.
func GetPgxTraceLogLevel(level zerolog.Level) int {
	switch level {
	case zerolog.TraceLevel:
		return int(tracelog.LogLevelTrace)
	case zerolog.DebugLevel:
		return int(tracelog.LogLevelDebug)
	case zerolog.InfoLevel:
		return int(tracelog.LogLevelInfo)
	case zerolog.WarnLevel:
		return int(tracelog.LogLevelWarn)
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return int(tracelog.LogLevelError)
	default:
		return int(tracelog.LogLevelNone)
	}
}
