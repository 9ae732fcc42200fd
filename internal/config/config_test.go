package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "visitingcard" {
		t.Errorf("Expected default server name to be 'visitingcard', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxImageSize != DefaultMaxImageSize {
		t.Errorf("Expected default max image size to be %d, got %d", DefaultMaxImageSize, cfg.MaxImageSize)
	}

	if len(cfg.Languages) != 1 || cfg.Languages[0] != "eng" {
		t.Errorf("Expected default languages ['eng'], got %v", cfg.Languages)
	}

	if cfg.LocalTimeout != DefaultLocalTimeout {
		t.Errorf("Expected default local timeout %v, got %v", DefaultLocalTimeout, cfg.LocalTimeout)
	}

	if cfg.APIKey != "" {
		t.Errorf("Expected no default API key, got '%s'", cfg.APIKey)
	}

	if cfg.ForcedOffline {
		t.Error("Expected forced offline to default off")
	}

	if cfg.NameFloor != 50 || cfg.TitleFloor != 60 || cfg.CompanyFloor != 50 {
		t.Errorf("Expected default floors 50/60/50, got %d/%d/%d",
			cfg.NameFloor, cfg.TitleFloor, cfg.CompanyFloor)
	}
}

func validTestConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CardDirectory = t.TempDir()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default",
			modify: func(*Config) {},
		},
		{
			name:    "invalid mode",
			modify:  func(c *Config) { c.Mode = "daemon" },
			wantErr: "mode must be",
		},
		{
			name:    "server mode invalid port",
			modify:  func(c *Config) { c.Mode = ModeServer; c.Port = 0 },
			wantErr: "port must be",
		},
		{
			name:   "stdio mode ignores port",
			modify: func(c *Config) { c.Mode = ModeStdio; c.Port = 0 },
		},
		{
			name:    "empty card directory",
			modify:  func(c *Config) { c.CardDirectory = "" },
			wantErr: "card directory cannot be empty",
		},
		{
			name:    "non-positive image size",
			modify:  func(c *Config) { c.MaxImageSize = 0 },
			wantErr: "maximum image size",
		},
		{
			name:    "no languages",
			modify:  func(c *Config) { c.Languages = nil },
			wantErr: "at least one OCR language",
		},
		{
			name:    "negative quota",
			modify:  func(c *Config) { c.QuotaCeiling = -1 },
			wantErr: "quota ceiling",
		},
		{
			name:    "non-positive local timeout",
			modify:  func(c *Config) { c.LocalTimeout = 0 },
			wantErr: "local timeout",
		},
		{
			name:    "non-positive probe timeout",
			modify:  func(c *Config) { c.ProbeTimeout = -time.Second },
			wantErr: "probe timeout",
		},
		{
			name:    "floor out of range",
			modify:  func(c *Config) { c.TitleFloor = 101 },
			wantErr: "confidence floors",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCreatesMissingDirectory(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.CardDirectory = filepath.Join(t.TempDir(), "cards", "inbox")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if _, err := os.Stat(cfg.CardDirectory); err != nil {
		t.Errorf("Expected the card directory to be created: %v", err)
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: 9090}
	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %s, want 0.0.0.0:9090", got)
	}
}

func TestModeHelpers(t *testing.T) {
	cfg := &Config{Mode: ModeStdio}
	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("expected stdio mode helpers to agree")
	}

	cfg.Mode = ModeServer
	if cfg.IsStdioMode() || !cfg.IsServerMode() {
		t.Error("expected server mode helpers to agree")
	}
}

func TestIsDebug(t *testing.T) {
	if (&Config{LogLevel: "info"}).IsDebug() {
		t.Error("expected info level not debug")
	}
	if !(&Config{LogLevel: "debug"}).IsDebug() {
		t.Error("expected debug level to report debug")
	}
}

func TestHasCloudCredentials(t *testing.T) {
	if (&Config{}).HasCloudCredentials() {
		t.Error("expected no credentials with an empty key")
	}
	if !(&Config{APIKey: "sk-test"}).HasCloudCredentials() {
		t.Error("expected credentials with a key set")
	}
}

func TestStringOmitsAPIKey(t *testing.T) {
	cfg := validTestConfig(t)
	cfg.APIKey = "sk-secret-value"

	if strings.Contains(cfg.String(), "sk-secret-value") {
		t.Error("expected String() to omit the API key")
	}
}
