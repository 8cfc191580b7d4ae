// Package config handles resolving configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// LogLevel is the minimum level of emitted log records.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// Config is the ende configuration file.
type Config struct {
	// LogLevel is one of DEBUG, INFO, WARN, or ERROR.
	LogLevel LogLevel `yaml:"log_level"`
	// WebAddress is the listen address of the HTTP API. Empty disables it.
	WebAddress string `yaml:"web_address"`
	// DBFilepath is the SQLite database holding saved flows, or ":memory:".
	DBFilepath string `yaml:"db_filepath"`
	// DevMode enables request logging and source locations in logs.
	DevMode bool `yaml:"dev_mode"`
	// APIToken, when set, is required as a bearer token on API requests.
	APIToken string `yaml:"api_token,omitempty"`
	// CacheBytes bounds the API response cache. Zero disables caching.
	CacheBytes int64 `yaml:"cache_bytes"`
	// MaxBody limits API request bodies, in echo's size notation (e.g. "4M").
	MaxBody string `yaml:"max_body"`
}

// Default returns a version of the config with all default values populated.
func Default() *Config {
	return &Config{
		LogLevel:   LogLevelInfo,
		WebAddress: "localhost:9797",
		DBFilepath: filepath.Join(xdg.DataHome, "ende", "flows.sqlite"),
		DevMode:    false,
		CacheBytes: 32 * 1024 * 1024, //nolint:mnd // 32 MiB
		MaxBody:    "4M",
	}
}

// DefaultPath is the configuration file location used when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "ende.yaml")
}

// Load loads a YAML configuration file from a path, merges it with defaults, and
// validates it for completeness. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Write stores the config as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	const userOnlyDirPerms = 0o700
	if err = os.MkdirAll(filepath.Dir(path), userOnlyDirPerms); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd // owner rw access
		return fmt.Errorf("failed to write config file to %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field of the config.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.WebAddress != "" {
		if _, _, err := net.SplitHostPort(c.WebAddress); err != nil {
			errs = append(errs, fmt.Errorf("web_address: %w", err))
		}
	}
	if c.DBFilepath == "" {
		errs = append(errs, errors.New("db_filepath: must be set"))
	}
	if _, err := bytes.Parse(c.MaxBody); err != nil {
		errs = append(errs, fmt.Errorf("max_body: %w", err))
	}
	if c.CacheBytes < 0 {
		errs = append(errs, errors.New("cache_bytes: must not be negative"))
	}
	return errors.Join(errs...)
}

// Level converts the configured log level to a [slog.Level].
func (c *Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug, nil
	case LogLevelInfo, "":
		return slog.LevelInfo, nil
	case LogLevelWarn:
		return slog.LevelWarn, nil
	case LogLevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
}

// LogValue satisfies [slog.LogValuer], keeping the API token out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("log_level", string(c.LogLevel)),
		slog.String("web_address", c.WebAddress),
		slog.String("db_filepath", c.DBFilepath),
		slog.Bool("dev_mode", c.DevMode),
		slog.Bool("api_token_set", c.APIToken != ""),
		slog.Int64("cache_bytes", c.CacheBytes),
		slog.String("max_body", c.MaxBody),
	)
}
