// Package config loads the server configuration from defaults, an optional
// YAML or JSON file, and environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/observability/otel"
)

// Environment variables read by ApplyEnv
const (
	EnvAddr     = "WEBPOOL_ADDR"
	EnvPoolSize = "WEBPOOL_POOL_SIZE"
	EnvLogLevel = "WEBPOOL_LOG_LEVEL"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig `yaml:"server" json:"server"`
	Pool    PoolConfig   `yaml:"pool" json:"pool"`
	Admin   AdminConfig  `yaml:"admin" json:"admin"`
	Log     LogConfig    `yaml:"log" json:"log"`
	Tracing otel.Config  `yaml:"tracing" json:"tracing"`
}

// ServerConfig configures the static file listener
type ServerConfig struct {
	Addr           string        `yaml:"addr" json:"addr"`
	StaticDir      string        `yaml:"static_dir" json:"static_dir"`
	ReadBufferSize int           `yaml:"read_buffer_size" json:"read_buffer_size"`
	// SleepDelay is a duration string in YAML ("5s") and nanoseconds in JSON.
	SleepDelay time.Duration `yaml:"sleep_delay" json:"sleep_delay"`
	// MaxConnections stops the listener after that many accepted
	// connections; 0 means no limit.
	MaxConnections int `yaml:"max_connections" json:"max_connections"`
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	Size int `yaml:"size" json:"size"`
}

// AdminConfig configures the metrics/health endpoint
type AdminConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:7878",
			StaticDir:      "static",
			ReadBufferSize: 1024,
			SleepDelay:     5 * time.Second,
		},
		Pool: PoolConfig{Size: 4},
		Admin: AdminConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9090",
		},
		Log:     LogConfig{Level: "INFO"},
		Tracing: otel.DefaultConfig(),
	}
}

// Load builds a Config from defaults, the file at path (if not empty) and
// the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = LoadYAML(path, cfg)
		case ".json":
			err = LoadJSON(path, cfg)
		default:
			err = &core.ValidationError{Code: core.CodeInvalidConfig, Message: fmt.Sprintf("unsupported config format %q", filepath.Ext(path))}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Log.Level = strings.ToUpper(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment using lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvPoolSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPoolSize, err)
		}
		c.Pool.Size = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToUpper(v)
	}
	return nil
}

// Validate checks the configuration. The pool size is checked here so a bad
// value is reported as an error before the pool would panic on it.
func (c *Config) Validate() error {
	if err := core.ValidatePoolSize(c.Pool.Size); err != nil {
		return fmt.Errorf("pool.size: %w", err)
	}
	if err := core.ValidateAddress(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr: %w", err)
	}
	if c.Server.ReadBufferSize <= 0 {
		return invalid("server.read_buffer_size must be positive")
	}
	if c.Server.MaxConnections < 0 {
		return invalid("server.max_connections cannot be negative")
	}
	if err := core.ValidateTimeout(c.Server.SleepDelay); err != nil {
		return fmt.Errorf("server.sleep_delay: %w", err)
	}
	if c.Admin.Enabled {
		if err := core.ValidateAddress(c.Admin.Addr); err != nil {
			return fmt.Errorf("admin.addr: %w", err)
		}
	}
	switch c.Log.Level {
	case "DEBUG", "INFO", "ERROR":
	default:
		return invalid(fmt.Sprintf("log.level %q is not one of DEBUG, INFO, ERROR", c.Log.Level))
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

func invalid(msg string) error {
	return &core.ValidationError{Code: core.CodeInvalidConfig, Message: msg}
}
