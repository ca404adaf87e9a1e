package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete streakd configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server" json:"server"`
	Database DBConfig      `yaml:"database" json:"database"`
	Vendor   VendorConfig  `yaml:"vendor" json:"vendor"`
	Logging  LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds the HTTP listener address.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" json:"http_addr"`
}

// DBConfig holds the SQLite database path.
type DBConfig struct {
	Path string `yaml:"path" json:"path"`
}

// VendorConfig identifies the vendor session this daemon serves.
type VendorConfig struct {
	// Key scopes the persisted streak record.
	Key string `yaml:"key" json:"key"`

	// Timezone is the IANA zone for the daily midnight boundary.
	// Empty means the system local zone.
	Timezone string `yaml:"timezone" json:"timezone"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server:   ServerConfig{HTTPAddr: ":8377"},
		Database: DBConfig{Path: "streakd.db"},
		Vendor:   VendorConfig{Key: "default"},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads, expands, defaults, and validates the config file at path.
// An empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// ${VAR} references resolve from the environment, so secrets
		// and per-host paths stay out of the file.
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills fields the file left empty.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.HTTPAddr == "" {
		cfg.Server.HTTPAddr = def.Server.HTTPAddr
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.Vendor.Key == "" {
		cfg.Vendor.Key = def.Vendor.Key
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}

// Location resolves the configured timezone. Empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Vendor.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Vendor.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid vendor.timezone %q: %w", c.Vendor.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps the configured level string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger per the logging section, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
