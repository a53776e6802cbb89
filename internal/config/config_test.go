package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	for key, value := range map[string]string{
		"DEVI_PRIMARY__ENV":                 "local",
		"DEVI_SERVER__PORT":                 "8080",
		"DEVI_SERVER__READ_TIMEOUT":         "30",
		"DEVI_SERVER__WRITE_TIMEOUT":        "30",
		"DEVI_SERVER__IDLE_TIMEOUT":         "60",
		"DEVI_SERVER__CORS_ALLOWED_ORIGINS": "http://localhost:3000,http://localhost:5173",
		"DEVI_DATABASE__HOST":               "localhost",
		"DEVI_DATABASE__PORT":               "5432",
		"DEVI_DATABASE__USER":               "devi",
		"DEVI_DATABASE__PASSWORD":           "p@ss word",
		"DEVI_DATABASE__NAME":               "devi",
		"DEVI_DATABASE__SSL_MODE":           "disable",
		"DEVI_DATABASE__MAX_OPEN_CONNS":     "10",
		"DEVI_DATABASE__MAX_IDLE_CONNS":     "5",
		"DEVI_DATABASE__CONN_MAX_LIFETIME":  "300",
		"DEVI_DATABASE__CONN_MAX_IDLE_TIME": "60",
	} {
		t.Setenv(key, value)
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.ssl_mode", EnvKey("DEVI_DATABASE__SSL_MODE"))
	assert.Equal(t, "observability.logging.level", EnvKey("DEVI_OBSERVABILITY__LOGGING__LEVEL"))
	assert.Equal(t, "users.table", EnvKey("DEVI_USERS__TABLE"))
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "p@ss word", cfg.Database.Password)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, DefaultUsersTable, cfg.Users.Table)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "devi", cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.GetLogLevel())
	assert.Equal(t, 100*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
	assert.True(t, cfg.Observability.HealthCheckEnabled("database"))
	assert.False(t, cfg.Observability.HealthCheckEnabled("redis"))
}

func TestLoadConfigUsersTable(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVI_USERS__TABLE", "accounts")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "accounts", cfg.Users.Table)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DEVI_DATABASE__HOST", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestObservabilityValidate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestGetLogLevelDefaultsByEnvironment(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "development"
	assert.Equal(t, "debug", cfg.GetLogLevel())
}
