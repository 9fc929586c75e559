package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// FileEnv names the variable holding an optional config file path
const FileEnv = "LAUNCHER_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Logging    LogConfig        `yaml:"logging" toml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" toml:"rate_limit"`
	Ports      PortConfig       `yaml:"ports" toml:"ports"`
	Storage    StorageConfig    `yaml:"storage" toml:"storage"`
	Supervisor SupervisorConfig `yaml:"supervisor" toml:"supervisor"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string   `envconfig:"PORT" yaml:"port" toml:"port"`
	Host           string   `envconfig:"HOST" yaml:"host" toml:"host"`
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" yaml:"allowed_origins" toml:"allowed_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// PortConfig is the fallback range for workspaces without settings.
type PortConfig struct {
	RangeStart int `envconfig:"PORT_RANGE_START" yaml:"range_start" toml:"range_start"`
	RangeEnd   int `envconfig:"PORT_RANGE_END" yaml:"range_end" toml:"range_end"`
}

// StorageConfig locates the launcher's state files.
type StorageConfig struct {
	// Dir defaults to ~/.zebras-launcher when empty
	Dir string `envconfig:"CONFIG_DIR" yaml:"dir" toml:"dir"`
}

// SupervisorConfig holds child process policy.
type SupervisorConfig struct {
	KillGraceMS int `envconfig:"KILL_GRACE_MS" yaml:"kill_grace_ms" toml:"kill_grace_ms"`
	MaxSessions int `envconfig:"MAX_TERMINAL_SESSIONS" yaml:"max_sessions" toml:"max_sessions"`
}

// KillGrace returns the pause between SIGTERM and SIGKILL.
func (s SupervisorConfig) KillGrace() time.Duration {
	return time.Duration(s.KillGraceMS) * time.Millisecond
}

// Load builds configuration from defaults, then the file named by
// LAUNCHER_CONFIG (if set), then environment variables.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(FileEnv))
}

// LoadFrom is Load with an explicit config file; an empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "7420",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Ports: PortConfig{
			RangeStart: 8000,
			RangeEnd:   9000,
		},
		Supervisor: SupervisorConfig{
			KillGraceMS: 50,
			MaxSessions: 3,
		},
	}
}

// Validate checks values that would break the supervisors.
func (c *Config) Validate() error {
	var errs []error
	if c.Ports.RangeStart < 1 || c.Ports.RangeEnd > 65535 || c.Ports.RangeStart > c.Ports.RangeEnd {
		errs = append(errs, fmt.Errorf("invalid port range %d-%d", c.Ports.RangeStart, c.Ports.RangeEnd))
	}
	if c.Supervisor.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("max terminal sessions must be positive, got %d", c.Supervisor.MaxSessions))
	}
	if c.Supervisor.KillGraceMS < 0 {
		errs = append(errs, fmt.Errorf("kill grace must not be negative, got %d", c.Supervisor.KillGraceMS))
	}
	return errors.Join(errs...)
}
