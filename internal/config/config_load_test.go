package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to clear environment variables
func clearEnvVars() {
	for _, name := range []string{
		"VCARD_MODE", "VCARD_HOST", "VCARD_PORT", "VCARD_DIR",
		"VCARD_MAXIMAGESIZE", "VCARD_APIKEY", "VCARD_OFFLINE",
		"VCARD_QUOTA", "VCARD_LOGLEVEL",
	} {
		os.Unsetenv(name)
	}
}

func setupLoadTest(t *testing.T, args []string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})
	os.Args = args
	resetFlags()
	clearEnvVars()
}

func TestLoadFromFlagsDefaults(t *testing.T) {
	setupLoadTest(t, []string{"visitingcard"})

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeStdio {
		t.Errorf("Mode = %v, want %v", cfg.Mode, ModeStdio)
	}
	if cfg.Host != DefaultHost {
		t.Errorf("Host = %v, want %v", cfg.Host, DefaultHost)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %v, want %v", cfg.Port, DefaultPort)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %v, want empty", cfg.APIKey)
	}
	if cfg.ForcedOffline {
		t.Error("ForcedOffline = true, want false")
	}
	if cfg.QuotaCeiling != 0 {
		t.Errorf("QuotaCeiling = %v, want 0", cfg.QuotaCeiling)
	}
}

func TestLoadFromFlagsOverrides(t *testing.T) {
	dir := t.TempDir()
	setupLoadTest(t, []string{
		"visitingcard",
		"--mode=server",
		"--host=0.0.0.0",
		"--port=9191",
		"--dir=" + dir,
		"--apikey=sk-test",
		"--offline",
		"--quota=250",
		"--loglevel=debug",
	})

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeServer {
		t.Errorf("Mode = %v, want server", cfg.Mode)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %v, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %v, want 9191", cfg.Port)
	}
	if cfg.CardDirectory != dir {
		t.Errorf("CardDirectory = %v, want %v", cfg.CardDirectory, dir)
	}
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %v, want sk-test", cfg.APIKey)
	}
	if !cfg.ForcedOffline {
		t.Error("ForcedOffline = false, want true")
	}
	if cfg.QuotaCeiling != 250 {
		t.Errorf("QuotaCeiling = %v, want 250", cfg.QuotaCeiling)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadFromFlagsEnvironment(t *testing.T) {
	setupLoadTest(t, []string{"visitingcard"})
	os.Setenv("VCARD_APIKEY", "sk-from-env")
	os.Setenv("VCARD_OFFLINE", "true")
	os.Setenv("VCARD_QUOTA", "42")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %v, want sk-from-env", cfg.APIKey)
	}
	if !cfg.ForcedOffline {
		t.Error("ForcedOffline = false, want true from environment")
	}
	if cfg.QuotaCeiling != 42 {
		t.Errorf("QuotaCeiling = %v, want 42", cfg.QuotaCeiling)
	}
}

func TestLoadFromFlagsInvalidMode(t *testing.T) {
	setupLoadTest(t, []string{"visitingcard", "--mode=daemon"})

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected validation error for invalid mode")
	}
}

func TestLoadFromFlagsVersionRequested(t *testing.T) {
	setupLoadTest(t, []string{"visitingcard", "--version"})

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected an error signaling the version request")
	}
}

func TestLoadFromFlagsExpandsDirectory(t *testing.T) {
	setupLoadTest(t, []string{"visitingcard", "--dir=."})

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.CardDirectory == "." {
		t.Error("expected the relative directory to be expanded to an absolute path")
	}
}
