package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Locator   LocatorConfig   `yaml:"locator"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Registry  RegistryConfig  `yaml:"registry"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type LocatorConfig struct {
	MaxWalkDepth int `yaml:"max_walk_depth"`
}

type SnapshotsConfig struct {
	// DuplicatePolicy is "ignore" (idempotent re-snapshot) or "fail".
	DuplicatePolicy string `yaml:"duplicate_policy"`
}

type RegistryConfig struct {
	// TTL is the freshness window for registry entries; zero disables expiry.
	TTL time.Duration `yaml:"ttl"`
	// Watch enables the fsnotify freshness watcher.
	Watch bool `yaml:"watch"`
	// WatchInterval bounds how quickly new registrations are picked up.
	WatchInterval time.Duration `yaml:"watch_interval"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "chronicle.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Locator: LocatorConfig{
			MaxWalkDepth: 3,
		},
		Snapshots: SnapshotsConfig{
			DuplicatePolicy: "ignore",
		},
		Registry: RegistryConfig{
			Watch:         true,
			WatchInterval: 30 * time.Second,
		},
	}

	if path := os.Getenv("CHRONICLE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CHRONICLE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CHRONICLE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHRONICLE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("CHRONICLE_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("CHRONICLE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CHRONICLE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the assembled configuration.
func (c Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"server", c.Server.Validate()},
		{"transport", c.Transport.Validate()},
		{"db", c.DB.Validate()},
		{"log", c.Log.Validate()},
		{"locator", c.Locator.Validate()},
		{"snapshots", c.Snapshots.Validate()},
	}
	for _, check := range checks {
		if check.err != nil {
			return fmt.Errorf("%s: %w", check.section, check.err)
		}
	}
	return nil
}

// Validate validates the server configuration.
func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Validate validates the transport configuration.
func (c TransportConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Mode, validation.Required, validation.In("stdio", "http")),
	)
}

// Validate validates the database configuration.
func (c DBConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required),
	)
}

// Validate validates the logging configuration.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

// Validate validates the locator configuration.
func (c LocatorConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxWalkDepth, validation.Min(0), validation.Max(32)),
	)
}

// Validate validates the snapshot configuration.
func (c SnapshotsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DuplicatePolicy, validation.Required, validation.In("ignore", "fail")),
	)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
