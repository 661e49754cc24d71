// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), overlays them on top of the built-in defaults and
// validates the result so the app fails fast on bad config.
//
// Responsibilities:
//   - Provide defaults that run the service with zero configuration.
//   - Map env vars into a structured Go config (structs).
//   - Validate required values and enum-like fields.
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before Load reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "PEOPLE_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags map flattened env keys onto struct fields and the
// `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Host               string   `koanf:"host" validate:"required"`
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"gte=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// Address joins host and port into a listen address.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DatabaseConfig selects the SQL backend and its pool tuning.
//
// Driver is "sqlite" (modernc, the default, in-memory) or "pgx" for PostgreSQL.
// Pool settings are ignored for in-memory SQLite, which is pinned to one connection.
type DatabaseConfig struct {
	Driver          string `koanf:"driver" validate:"required,oneof=sqlite pgx"`
	DSN             string `koanf:"dsn" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"gte=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"gte=0"`
}

// IsInMemory reports whether the configured database lives only in process memory.
func (d DatabaseConfig) IsInMemory() bool {
	return d.Driver == "sqlite" && (d.DSN == ":memory:" || strings.Contains(d.DSN, "mode=memory"))
}

// Default returns the configuration the service runs with when nothing is set:
// 127.0.0.1:8080 backed by an in-memory SQLite database.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			Host:               "127.0.0.1",
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             ":memory:",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey turns PEOPLE_SERVER__READ_TIMEOUT into server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Load builds the configuration from defaults and environment variables,
// validates it and fills in the observability block.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Unmarshal onto the defaults so unset keys keep their default value.
	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = "people"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
