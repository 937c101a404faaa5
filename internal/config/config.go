// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// APIBaseURL is the equipment lending backend base URL (e.g. https://api.example.org). Required.
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	// RequestTimeout is the per-call timeout for verification and mutation requests (e.g. "30s").
	RequestTimeout string `mapstructure:"REQUEST_TIMEOUT"`
	// SessionFile is the path of the JSON session file written at login. Default ~/.equiplend/session.json.
	SessionFile string `mapstructure:"SESSION_FILE"`
	// AuditDBPath is the path of the local sqlite audit trail. Default ~/.equiplend/audit.db.
	AuditDBPath string `mapstructure:"AUDIT_DB_PATH"`
	// OTLPEndpoint is the OTLP trace collector endpoint (e.g. http://localhost:4317). Empty disables tracing.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext OTLP connection even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// LogLevel is the slog level name: debug, info, warn, error. Default info.
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// LogFormat is "text" (tint) or "json". Default text.
	LogFormat string `mapstructure:"LOG_FORMAT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored. Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("API_BASE_URL", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("SESSION_FILE", "")
	v.SetDefault("AUDIT_DB_PATH", "")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIBaseURL == "" {
		return nil, errors.New("config: API_BASE_URL must be set")
	}

	if cfg.SessionFile == "" || cfg.AuditDBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.New("config: SESSION_FILE and AUDIT_DB_PATH must be set when no home directory is available")
		}
		if cfg.SessionFile == "" {
			cfg.SessionFile = filepath.Join(home, ".equiplend", "session.json")
		}
		if cfg.AuditDBPath == "" {
			cfg.AuditDBPath = filepath.Join(home, ".equiplend", "audit.db")
		}
	}

	return &cfg, nil
}

// Timeout parses RequestTimeout as a time.Duration. Returns 30s if unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
