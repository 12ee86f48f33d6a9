// Package config loads server and CLI settings from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfoutline/tables"
)

type Config struct {
	Addr string `yaml:"addr"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Per-document page extraction workers
	Workers int `yaml:"workers"`

	LogLevel string `yaml:"log_level"`

	// Parsed documents kept in memory, keyed by content hash
	CacheSize int `yaml:"cache_size"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	Tables tables.Config `yaml:"tables"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Addr:           ":8090",
		MaxUploadBytes: 52428800, // 50MB
		Workers:        4,
		LogLevel:       "info",
		CacheSize:      16,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		Tables:         tables.DefaultConfig(),
	}
}

// Load layers the file named by PDFOUTLINE_CONFIG, if any, over the
// defaults and the PDFOUTLINE_* environment variables over both
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("PDFOUTLINE_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Addr = envOr("PDFOUTLINE_ADDR", cfg.Addr)
	cfg.MaxUploadBytes = envInt64("PDFOUTLINE_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.Workers = envInt("PDFOUTLINE_WORKERS", cfg.Workers)
	cfg.LogLevel = envOr("PDFOUTLINE_LOG_LEVEL", cfg.LogLevel)
	cfg.CacheSize = envInt("PDFOUTLINE_CACHE_SIZE", cfg.CacheSize)
	cfg.ReadTimeout = envDuration("PDFOUTLINE_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = envDuration("PDFOUTLINE_WRITE_TIMEOUT", cfg.WriteTimeout)

	return cfg, nil
}

// LoadFile reads a YAML configuration file over the defaults
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return c.Tables.Validate()
}

// SlogLevel returns the configured log level, or info when it is invalid
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
