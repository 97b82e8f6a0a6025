// Package config loads the CLI and preview server configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reoring/optgrammar/codec"
)

// Config is the root configuration structure.
type Config struct {
	Catalog  string        `yaml:"catalog"`  // catalog file (YAML or JSON)
	Watch    bool          `yaml:"watch"`    // reload the catalog when the file changes
	Language string        `yaml:"language"` // message language: "en" or "ja"
	Blob     BlobConfig    `yaml:"blob"`
	Server   ServerConfig  `yaml:"server"`
	Logging  LoggingConfig `yaml:"logging"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

// BlobConfig selects the Blob codec.
type BlobConfig struct {
	Encoding string `yaml:"encoding"` // "base64" or "base64_lines"
}

// ServerConfig configures the preview HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// Addr is host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`      // default: /metrics
	Namespace string `yaml:"namespace"` // default: optgrammar
}

// Override adjusts a loaded config before defaults and validation run.
// Command-line flags use it so they rank above both the file and the
// environment.
type Override func(*Config)

// Load reads configuration from a YAML file.
func Load(path string, overrides ...Override) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return finish(&cfg, overrides)
}

// LoadFromEnv builds configuration from OPTGRAMMAR_* variables alone.
//
//	OPTGRAMMAR_CATALOG          - catalog file (required)
//	OPTGRAMMAR_LANGUAGE         - en or ja (default: en)
//	OPTGRAMMAR_BLOB_ENCODING    - base64 or base64_lines (default: base64)
//	OPTGRAMMAR_SERVER_HOST      - default: 127.0.0.1
//	OPTGRAMMAR_SERVER_PORT      - default: 8080
//	OPTGRAMMAR_LOG_LEVEL        - default: info
//	OPTGRAMMAR_LOG_FORMAT       - json or console (default: json)
//	OPTGRAMMAR_METRICS_ENABLED  - default: false
//	OPTGRAMMAR_WATCH            - default: false
//	OPTGRAMMAR_METRICS_PATH     - default: /metrics
func LoadFromEnv(overrides ...Override) (*Config, error) {
	return finish(&Config{}, overrides)
}

// LoadWithFallback loads path when it exists and falls back to the
// environment otherwise.
func LoadWithFallback(path string, overrides ...Override) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path, overrides...)
		}
	}
	return LoadFromEnv(overrides...)
}

func finish(cfg *Config, overrides []Override) (*Config, error) {
	applyEnvOverrides(cfg)
	for _, o := range overrides {
		o(cfg)
	}
	setDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies OPTGRAMMAR_* variables; they always win over
// the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTGRAMMAR_CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := os.Getenv("OPTGRAMMAR_WATCH"); v != "" {
		cfg.Watch = parseBool(v)
	}
	if v := os.Getenv("OPTGRAMMAR_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("OPTGRAMMAR_BLOB_ENCODING"); v != "" {
		cfg.Blob.Encoding = v
	}

	if v := os.Getenv("OPTGRAMMAR_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("OPTGRAMMAR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("OPTGRAMMAR_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("OPTGRAMMAR_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if v := os.Getenv("OPTGRAMMAR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPTGRAMMAR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("OPTGRAMMAR_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("OPTGRAMMAR_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Blob.Encoding == "" {
		cfg.Blob.Encoding = "base64"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "optgrammar"
	}
}

func validate(cfg *Config) error {
	if cfg.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if cfg.Language != "en" && cfg.Language != "ja" {
		return fmt.Errorf("language must be 'en' or 'ja', got %q", cfg.Language)
	}
	if _, ok := codec.ByName(cfg.Blob.Encoding); !ok {
		return fmt.Errorf("blob.encoding must be 'base64' or 'base64_lines', got %q", cfg.Blob.Encoding)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}
	return nil
}
