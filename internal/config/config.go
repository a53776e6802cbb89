// Package config loads the service configuration from environment variables.
//
// Variables use the DEVI_ prefix and a double underscore between nesting
// levels, so DEVI_DATABASE__SSL_MODE maps to database.ssl_mode and
// DEVI_OBSERVABILITY__LOGGING__LEVEL to observability.logging.level.
// A `.env` file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads `.env` into the process environment before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "DEVI_"

	DefaultUsersTable = "users"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional; defaults are injected
// when it is missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Users         UsersConfig          `koanf:"users"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig configures the HTTP listener. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained number of requests per second allowed per
	// client IP. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig describes the PostgreSQL connection and pool sizing.
// ConnMaxLifetime and ConnMaxIdleTime are in seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// UsersConfig configures the user repository.
type UsersConfig struct {
	// Table is the table users are stored in. Defaults to "users".
	Table string `koanf:"table" validate:"omitempty,max=63"`
}

// EnvKey maps an environment variable name to its koanf key path.
func EnvKey(name string) string {
	name = strings.TrimPrefix(name, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(name), "__", ".")
}

// LoadConfig reads, defaults and validates the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", EnvKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// finalize injects defaults and validates the result.
func (c *Config) finalize() error {
	if c.Users.Table == "" {
		c.Users.Table = DefaultUsersTable
	}

	// Env values arrive as one comma separated string.
	c.Server.CORSAllowedOrigins = splitList(c.Server.CORSAllowedOrigins)
	if c.Observability != nil {
		c.Observability.HealthChecks.Checks = splitList(c.Observability.HealthChecks.Checks)
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	c.Observability.ServiceName = "devi"
	c.Observability.Environment = c.Primary.Env

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
