// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, applies defaults and
// validates that required values are present so the app fails fast on
// bad/missing config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	`koanf` reads config sources and unmarshals them into the structs below.

	- Env vars are read using the prefix USERGROUPS_.
	- Keys are normalized: prefix removed, lowercased, and "__" turned into
	  the "." delimiter so nested structs can be addressed, e.g.
	  USERGROUPS_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "USERGROUPS_"

// Config is the root configuration object for the application.
//
// Redis and Integration are optional: without them the welcome-email job
// pipeline is disabled. Observability is a pointer because defaults are
// injected when it is absent.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
// RateLimit is requests per second per client IP; 0 disables limiting.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	RateLimit          float64  `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig holds the Postgres connection and pool settings.
//
// ConnMaxLifetime and ConnMaxIdleTime are in seconds. TxTimeout bounds
// every multi-statement transaction.
type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int           `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int           `koanf:"conn_max_idle_time" validate:"min=0"`
	TxTimeout       time.Duration `koanf:"tx_timeout" validate:"min=1ms"`
}

// RedisConfig points at the Redis used by the background job queue.
// An empty Address disables background jobs.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// IntegrationConfig holds third-party integration credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from"`
}

// JobsEnabled reports whether the welcome-email pipeline can run.
func (c *Config) JobsEnabled() bool {
	return c.Redis.Address != "" && c.Integration.ResendAPIKey != ""
}

// applyDefaults fills optional values the environment left unset.
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.TxTimeout == 0 {
		c.Database.TxTimeout = 5 * time.Second
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Usergroups <onboarding@resend.dev>"
	}
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	c.Observability.ServiceName = "usergroups"
	c.Observability.Environment = c.Primary.Env
	c.Observability.fillDefaults()
}

// envKey maps USERGROUPS_DATABASE__HOST to database.host.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig reads, defaults and validates the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// CORS origins arrive as a single comma separated env value.
	if raw := k.String("server.cors_allowed_origins"); raw != "" {
		mainConfig.Server.CORSAllowedOrigins = splitList(raw)
	}

	mainConfig.applyDefaults()

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
