package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Backend struct {
		URL     string        `yaml:"url" json:"url" jsonschema:"default=http://localhost:8000,description=Base URL of the aggregation backend API"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Backend request timeout"`
	} `yaml:"backend" json:"backend" jsonschema:"description=Aggregation backend API"`

	Refresh struct {
		Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=30m,description=Auto-refresh interval for articles"`
	} `yaml:"refresh" json:"refresh" jsonschema:"description=Auto-refresh configuration"`

	UI struct {
		Theme         string `yaml:"theme" json:"theme" jsonschema:"default=light,enum=light,enum=dark,description=Default theme when no preference cookie is set"`
		ExcerptLength int    `yaml:"excerpt_length" json:"excerpt_length" jsonschema:"default=200,minimum=1,description=Maximum article excerpt length in characters"`
	} `yaml:"ui" json:"ui" jsonschema:"description=UI configuration"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults applied, used when no
// config file is given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:8000"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 15 * time.Second
	}

	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 30 * time.Minute
	}

	if c.UI.Theme == "" {
		c.UI.Theme = "light"
	}
	if c.UI.ExcerptLength == 0 {
		c.UI.ExcerptLength = 200
	}
}

// GetServerConfig returns listen address and timeout for the HTTP server
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetUIConfig returns presentation defaults for the web UI
func (c *Config) GetUIConfig() (defaultTheme string, excerptLength int) {
	return c.UI.Theme, c.UI.ExcerptLength
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if cfg.Backend.Timeout < time.Second {
		return fmt.Errorf("backend timeout must be at least 1 second")
	}
	if cfg.Refresh.Interval < time.Minute {
		return fmt.Errorf("refresh interval must be at least 1 minute")
	}
	if cfg.UI.Theme != "light" && cfg.UI.Theme != "dark" {
		return fmt.Errorf("ui.theme must be light or dark")
	}
	if cfg.UI.ExcerptLength < 1 {
		return fmt.Errorf("ui.excerpt_length must be positive")
	}
	return nil
}
