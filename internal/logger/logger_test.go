package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/devi/internal/config"
)

func TestNewLoggerWritesStructuredJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := NewLoggerWithWriter(cfg, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("table", "users").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "users", entry["table"])
	assert.Equal(t, "devi", entry["service"])
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, int(tracelog.LogLevelDebug), GetPgxTraceLogLevel(zerolog.DebugLevel))
	assert.Equal(t, int(tracelog.LogLevelInfo), GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, int(tracelog.LogLevelError), GetPgxTraceLogLevel(zerolog.FatalLevel))
	assert.Equal(t, int(tracelog.LogLevelNone), GetPgxTraceLogLevel(zerolog.Disabled))
}
