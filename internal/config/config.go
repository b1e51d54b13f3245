package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name looked up when no explicit path is given.
const ConfigFile = "shelf.yml"

const (
	DefaultPort        = 22880
	DefaultSearchLimit = 100
)

// Config holds the shelf configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	GraphQL GraphQLConfig `yaml:"graphql"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig defines settings for the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" env:"SHELF_PORT"`
}

// CatalogConfig defines where the catalog is seeded from.
// An empty Seed uses the built-in dataset.
type CatalogConfig struct {
	Seed string `yaml:"seed,omitempty" env:"SHELF_SEED"`
}

// SearchConfig defines settings for full-text book search.
type SearchConfig struct {
	Limit int `yaml:"limit" env:"SHELF_SEARCH_LIMIT"`
}

// GraphQLConfig defines settings for the GraphQL endpoint.
type GraphQLConfig struct {
	Introspection bool `yaml:"introspection" env:"SHELF_INTROSPECTION"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level       string `yaml:"level" env:"SHELF_LOG_LEVEL"`
	Development bool   `yaml:"development,omitempty" env:"SHELF_LOG_DEVELOPMENT"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: DefaultPort},
		Search:  SearchConfig{Limit: DefaultSearchLimit},
		GraphQL: GraphQLConfig{Introspection: true},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from the given file and applies SHELF_* environment
// overrides on top. If path is empty, ConfigFile in the working directory is used
// when present. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// Apply defaults for values zeroed out by the file
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("invalid search limit %d", c.Search.Limit)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}
