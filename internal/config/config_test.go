package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment
	os.Clearenv()
	os.Setenv("API_BASE_URL", "https://api.example.org")
	os.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.APIBaseURL != "https://api.example.org" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "https://api.example.org")
	}
	if cfg.RequestTimeout != "30s" {
		t.Errorf("RequestTimeout = %q, want %q", cfg.RequestTimeout, "30s")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.SessionFile == "" {
		t.Error("SessionFile default not derived from home directory")
	}
	if cfg.AuditDBPath == "" {
		t.Error("AuditDBPath default not derived from home directory")
	}
	if cfg.OTLPEndpoint != "" {
		t.Errorf("OTLPEndpoint = %q, want empty", cfg.OTLPEndpoint)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	os.Clearenv()
	os.Setenv("API_BASE_URL", "http://localhost:3000")
	os.Setenv("REQUEST_TIMEOUT", "5s")
	os.Setenv("SESSION_FILE", "/tmp/s.json")
	os.Setenv("AUDIT_DB_PATH", "/tmp/a.db")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:3000" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:3000")
	}
	if cfg.RequestTimeout != "5s" {
		t.Errorf("RequestTimeout = %q, want %q", cfg.RequestTimeout, "5s")
	}
	if cfg.SessionFile != "/tmp/s.json" {
		t.Errorf("SessionFile = %q, want %q", cfg.SessionFile, "/tmp/s.json")
	}
	if cfg.AuditDBPath != "/tmp/a.db" {
		t.Errorf("AuditDBPath = %q, want %q", cfg.AuditDBPath, "/tmp/a.db")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without API_BASE_URL")
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"valid", "5s", 5 * time.Second},
		{"empty falls back", "", 30 * time.Second},
		{"invalid falls back", "soon", 30 * time.Second},
		{"non-positive falls back", "-1s", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{RequestTimeout: tt.raw}
			if got := c.Timeout(); got != tt.want {
				t.Errorf("Timeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
