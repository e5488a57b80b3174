package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all backend configuration. Precedence is built-in
// defaults, then the YAML config file, then FW_* environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	DataDir   string          `yaml:"data_dir" envconfig:"DATA_DIR"`
}

// ServerConfig holds HTTP server configuration. The backend only serves
// the local UI, so the host defaults to loopback.
type ServerConfig struct {
	Port string `yaml:"port" envconfig:"PORT"`
	Host string `yaml:"host" envconfig:"HOST"`
}

// ArchiveConfig holds archive tool configuration.
type ArchiveConfig struct {
	UnrarBinary string `yaml:"unrar_binary" envconfig:"UNRAR_BINARY"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Development bool   `yaml:"development" envconfig:"LOG_DEV"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `yaml:"requests_per_second" envconfig:"RATE_LIMIT_RPS"`
	Burst             int  `yaml:"burst" envconfig:"RATE_LIMIT_BURST"`
	Enabled           bool `yaml:"enabled" envconfig:"RATE_LIMIT_ENABLED"`
}

// envPrefix namespaces all environment variables: FW_PORT, FW_LOG_LEVEL.
const envPrefix = "FW"

// Load starts from defaults, overlays the YAML file at path (a missing
// file is fine), then applies environment variables on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads from the default file location, falling back to
// pure defaults if the environment is broken.
func LoadOrDefault() *Config {
	cfg, err := Load(DefaultPath())
	if err != nil {
		return Default()
	}
	return cfg
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "filewright", "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "7460",
			Host: "127.0.0.1",
		},
		Archive: ArchiveConfig{
			UnrarBinary: "unrar",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 200,
			Burst:             400,
			Enabled:           true,
		},
		DataDir: defaultDataDir(),
	}
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".filewright"
	}
	return filepath.Join(base, "filewright", "data")
}
