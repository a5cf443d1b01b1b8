package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	StoragePath   string `envconfig:"STORAGE_PATH" default:"data/dayboard.db"`
	StorageKey    string `envconfig:"STORAGE_KEY" default:"tasks"`
	IDScheme      string `envconfig:"ID_SCHEME" default:"uuid"`

	AuthMode    string `envconfig:"AUTH_MODE" default:"none"`
	APIKey      string `envconfig:"API_KEY"`
	BearerToken string `envconfig:"BEARER_TOKEN"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"10"`

	TraceExporter string `envconfig:"TRACE_EXPORTER" default:"none"`
	OTLPEndpoint  string `envconfig:"OTLP_ENDPOINT" default:"localhost:4318"`
}

// Load reads the process environment. Variables are unprefixed, e.g. ADDR,
// LOG_LEVEL, STORAGE_DRIVER.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := oneOf("STORAGE_DRIVER", c.StorageDriver, "sqlite", "file", "memory"); err != nil {
		return err
	}
	if err := oneOf("ID_SCHEME", c.IDScheme, "uuid", "ulid"); err != nil {
		return err
	}
	if err := oneOf("AUTH_MODE", c.AuthMode, "none", "apikey", "bearer"); err != nil {
		return err
	}
	if err := oneOf("TRACE_EXPORTER", c.TraceExporter, "none", "stdout", "otlp"); err != nil {
		return err
	}
	if c.StorageDriver != "memory" && c.StoragePath == "" {
		return fmt.Errorf("STORAGE_PATH is required for driver %q", c.StorageDriver)
	}
	switch {
	case c.AuthMode == "apikey" && c.APIKey == "":
		return fmt.Errorf("API_KEY is required when AUTH_MODE=apikey")
	case c.AuthMode == "bearer" && c.BearerToken == "":
		return fmt.Errorf("BEARER_TOKEN is required when AUTH_MODE=bearer")
	}
	return nil
}

// SlogLevel falls back to info for anything unrecognised.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s: unsupported value %q (want one of %v)", name, value, allowed)
}
