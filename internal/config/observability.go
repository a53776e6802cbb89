package config

import (
	"fmt"
	"slices"
	"time"
)

// ObservabilityConfig groups logging and health check settings.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs. Forced to "devi".
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment is copied from primary.env.
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	HealthChecks HealthChecksConfig `koanf:"health_checks" validate:"required"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level" validate:"required"`

	// Format is "json" or "console".
	Format string `koanf:"format" validate:"required"`

	// SlowQueryThreshold marks queries slower than this as slow in the pgx
	// trace log. Parsed from duration strings such as "100ms".
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// HealthChecksConfig controls the /status endpoint.
type HealthChecksConfig struct {
	Enabled bool `koanf:"enabled"`

	// Timeout bounds a single dependency check.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Checks names the dependencies to probe. Only "database" is known.
	Checks []string `koanf:"checks"`
}

// DefaultObservabilityConfig is used when no observability block is configured.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: "devi",
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"database"},
		},
	}
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the rules struct tags cannot express.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the configured level, defaulting by environment when
// none is set.
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	if c.IsProduction() {
		return "info"
	}
	return "debug"
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

// HealthCheckEnabled reports whether name is among the configured checks.
func (c *ObservabilityConfig) HealthCheckEnabled(name string) bool {
	return c.HealthChecks.Enabled && slices.Contains(c.HealthChecks.Checks, name)
}
