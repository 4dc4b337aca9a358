// Package config loads syncview settings from defaults, an optional YAML
// file and SYNCVIEW_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: SYNCVIEW_VIEWPORT__WIDTH sets viewport.width.
const EnvPrefix = "SYNCVIEW_"

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "syncview.yml"

// Config holds the viewer settings.
type Config struct {
	ReferenceWidth float64  `yaml:"reference_width" koanf:"reference_width"`
	PageGap        float64  `yaml:"page_gap" koanf:"page_gap"`
	Zoom           float64  `yaml:"zoom" koanf:"zoom"`
	Viewport       Viewport `yaml:"viewport" koanf:"viewport"`
	HTTPTimeout    string   `yaml:"http_timeout" koanf:"http_timeout"`
	MaxInlineBytes int64    `yaml:"max_inline_bytes" koanf:"max_inline_bytes"`
	LogLevel       string   `yaml:"log_level" koanf:"log_level"`
}

// Viewport is the size of the containers created by the CLI and the script
// host.
type Viewport struct {
	Width  float64 `yaml:"width" koanf:"width"`
	Height float64 `yaml:"height" koanf:"height"`
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() *Config {
	return &Config{
		ReferenceWidth: 800,
		PageGap:        12,
		Zoom:           0,
		Viewport:       Viewport{Width: 800, Height: 1000},
		HTTPTimeout:    "30s",
		MaxInlineBytes: 50 << 20,
		LogLevel:       "info",
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ReferenceWidth <= 0 {
		return fmt.Errorf("reference_width must be positive")
	}
	if c.PageGap < 0 {
		return fmt.Errorf("page_gap must be non-negative")
	}
	if c.Zoom < 0 {
		return fmt.Errorf("zoom must be non-negative")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must have a positive width and height")
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.MaxInlineBytes <= 0 {
		return fmt.Errorf("max_inline_bytes must be positive")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// Timeout parses HTTPTimeout.
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid http_timeout %q: %w", c.HTTPTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("http_timeout must be non-negative")
	}
	return d, nil
}
