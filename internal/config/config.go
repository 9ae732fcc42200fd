package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultMaxImageSize = 20 * 1024 * 1024 // 20MB
	DefaultLocalTimeout = 30 * time.Second
	DefaultProbeTimeout = 10 * time.Second

	// Default arbitration floors: fields scoring below are cleared
	DefaultNameFloor    = 50
	DefaultTitleFloor   = 60
	DefaultCompanyFloor = 50

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the visiting card MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Card configuration
	CardDirectory string
	MaxImageSize  int64 // Maximum card image size in bytes

	// Recognition configuration
	APIKey        string // cloud vision credential; empty disables the cloud engine
	CloudModel    string // cloud model override; empty uses the built-in default
	CloudBaseURL  string // cloud endpoint override for proxies and tests
	Languages     []string
	ForcedOffline bool
	QuotaCeiling  int64 // cloud invocations per process lifetime; zero means unlimited
	LocalTimeout  time.Duration
	ProbeTimeout  time.Duration

	// Arbitration configuration
	NameFloor    int
	TitleFloor   int
	CompanyFloor int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		CardDirectory: currentDir,
		MaxImageSize:  DefaultMaxImageSize,
		Languages:     []string{"eng"},
		LocalTimeout:  DefaultLocalTimeout,
		ProbeTimeout:  DefaultProbeTimeout,
		NameFloor:     DefaultNameFloor,
		TitleFloor:    DefaultTitleFloor,
		CompanyFloor:  DefaultCompanyFloor,
		Version:       "1.0.0",
		ServerName:    "visitingcard",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.CardDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.CardDirectory); err == nil {
			cfg.CardDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("VCARD")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.CardDirectory)
	viper.SetDefault("maximagesize", cfg.MaxImageSize)
	viper.SetDefault("apikey", cfg.APIKey)
	viper.SetDefault("cloudmodel", cfg.CloudModel)
	viper.SetDefault("cloudbaseurl", cfg.CloudBaseURL)
	viper.SetDefault("languages", cfg.Languages)
	viper.SetDefault("offline", cfg.ForcedOffline)
	viper.SetDefault("quota", cfg.QuotaCeiling)
	viper.SetDefault("localtimeout", cfg.LocalTimeout)
	viper.SetDefault("probetimeout", cfg.ProbeTimeout)
	viper.SetDefault("namefloor", cfg.NameFloor)
	viper.SetDefault("titlefloor", cfg.TitleFloor)
	viper.SetDefault("companyfloor", cfg.CompanyFloor)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.CardDirectory, "Directory containing card images")
	pflag.Int64("maximagesize", cfg.MaxImageSize, "Maximum card image size in bytes")
	pflag.String("apikey", cfg.APIKey, "Cloud vision API key (empty disables the cloud engine)")
	pflag.String("cloudmodel", cfg.CloudModel, "Cloud vision model override")
	pflag.String("cloudbaseurl", cfg.CloudBaseURL, "Cloud endpoint override")
	pflag.StringSlice("languages", cfg.Languages, "OCR languages for the local engine")
	pflag.Bool("offline", cfg.ForcedOffline, "Force the local engine regardless of cloud availability")
	pflag.Int64("quota", cfg.QuotaCeiling, "Cloud invocation ceiling per process (0 = unlimited)")
	pflag.Duration("localtimeout", cfg.LocalTimeout, "Local OCR timeout")
	pflag.Duration("probetimeout", cfg.ProbeTimeout, "Cloud reachability probe timeout")
	pflag.Int("namefloor", cfg.NameFloor, "Minimum confidence to keep an extracted name")
	pflag.Int("titlefloor", cfg.TitleFloor, "Minimum confidence to keep an extracted job title")
	pflag.Int("companyfloor", cfg.CompanyFloor, "Minimum confidence to keep an extracted company")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "host", "port", "dir", "maximagesize",
		"apikey", "cloudmodel", "cloudbaseurl", "languages",
		"offline", "quota", "localtimeout", "probetimeout",
		"namefloor", "titlefloor", "companyfloor", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nVisiting Card Reader - A Model Context Protocol server for extracting contact records from business cards\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/cards                    "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --offline                               # local OCR only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --host=0.0.0.0 --port=8081 # server on all interfaces\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  VCARD_MODE          Server mode\n")
		fmt.Fprintf(os.Stderr, "  VCARD_HOST          Server host\n")
		fmt.Fprintf(os.Stderr, "  VCARD_PORT          Server port\n")
		fmt.Fprintf(os.Stderr, "  VCARD_DIR           Card image directory\n")
		fmt.Fprintf(os.Stderr, "  VCARD_MAXIMAGESIZE  Maximum image size\n")
		fmt.Fprintf(os.Stderr, "  VCARD_APIKEY        Cloud vision API key\n")
		fmt.Fprintf(os.Stderr, "  VCARD_OFFLINE       Force the local engine\n")
		fmt.Fprintf(os.Stderr, "  VCARD_QUOTA         Cloud invocation ceiling\n")
		fmt.Fprintf(os.Stderr, "  VCARD_LOGLEVEL      Log level\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.CardDirectory = viper.GetString("dir")
	cfg.MaxImageSize = viper.GetInt64("maximagesize")
	cfg.APIKey = viper.GetString("apikey")
	cfg.CloudModel = viper.GetString("cloudmodel")
	cfg.CloudBaseURL = viper.GetString("cloudbaseurl")
	cfg.Languages = viper.GetStringSlice("languages")
	cfg.ForcedOffline = viper.GetBool("offline")
	cfg.QuotaCeiling = viper.GetInt64("quota")
	cfg.LocalTimeout = viper.GetDuration("localtimeout")
	cfg.ProbeTimeout = viper.GetDuration("probetimeout")
	cfg.NameFloor = viper.GetInt("namefloor")
	cfg.TitleFloor = viper.GetInt("titlefloor")
	cfg.CompanyFloor = viper.GetInt("companyfloor")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate card directory
	if c.CardDirectory == "" {
		return errors.New("card directory cannot be empty")
	}

	// Check if card directory exists, create if it doesn't
	if _, err := os.Stat(c.CardDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.CardDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create card directory %s: %w", c.CardDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access card directory %s: %w", c.CardDirectory, err)
	}

	// Validate max image size
	if c.MaxImageSize <= 0 {
		return errors.New("maximum image size must be positive")
	}

	if len(c.Languages) == 0 {
		return errors.New("at least one OCR language is required")
	}
	if c.QuotaCeiling < 0 {
		return errors.New("quota ceiling cannot be negative")
	}
	if c.LocalTimeout <= 0 {
		return errors.New("local timeout must be positive")
	}
	if c.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	for _, floor := range []int{c.NameFloor, c.TitleFloor, c.CompanyFloor} {
		if floor < 0 || floor > 100 {
			return errors.New("confidence floors must be between 0 and 100")
		}
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HasCloudCredentials reports whether the cloud engine can be configured
func (c *Config) HasCloudCredentials() bool {
	return c.APIKey != ""
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, CardDirectory: %s, Offline: %v, Quota: %d, LogLevel: %s, MaxImageSize: %d}",
		c.Mode, c.Host, c.Port, c.CardDirectory, c.ForcedOffline, c.QuotaCeiling, c.LogLevel, c.MaxImageSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
