// Package config provides configuration management for rtx.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/rtx/pkg/plugins"
	"github.com/open-cli-collective/rtx/pkg/render"
	"github.com/open-cli-collective/rtx/pkg/ruleset"
)

// Environment variables overriding the configuration file.
const (
	EnvRules         = "RTX_RULES"
	EnvOutput        = "RTX_OUTPUT"
	EnvPlugins       = "RTX_PLUGINS"
	EnvMaxWorkers    = "RTX_MAX_WORKERS"
	EnvTerminalStyle = "RTX_TERMINAL_STYLE"
	EnvGlamourStyle  = "GLAMOUR_STYLE" // fallback for EnvTerminalStyle
)

// EnvVars lists every environment variable LoadFromEnv reads.
var EnvVars = []string{EnvRules, EnvOutput, EnvPlugins, EnvMaxWorkers, EnvTerminalStyle, EnvGlamourStyle}

// ActiveEnvVars returns the variables from EnvVars that are set and non-empty.
func ActiveEnvVars() []string {
	var active []string
	for _, v := range EnvVars {
		if os.Getenv(v) != "" {
			active = append(active, v)
		}
	}
	return active
}

// Config holds the rtx configuration.
type Config struct {
	// Rules is the path of a rule-set file; empty means the built-in rules.
	Rules         string   `yaml:"rules,omitempty"`
	OutputFormat  string   `yaml:"output_format,omitempty"`
	Plugins       []string `yaml:"plugins,omitempty"`
	MaxWorkers    int      `yaml:"max_workers,omitempty"`
	TerminalStyle string   `yaml:"terminal_style,omitempty"`
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Rules != "" {
		if _, err := ruleset.FormatFromPath(c.Rules); err != nil {
			return err
		}
	}
	if c.OutputFormat != "" {
		if _, err := render.ParseFormat(c.OutputFormat); err != nil {
			return err
		}
	}
	for _, name := range c.Plugins {
		if _, err := plugins.Lookup(name); err != nil {
			return err
		}
	}
	if c.MaxWorkers < 0 {
		return errors.New("max_workers cannot be negative")
	}
	return nil
}

// Workers returns the number of files parsed concurrently.
func (c *Config) Workers() int {
	if c.MaxWorkers > 0 {
		return c.MaxWorkers
	}
	return runtime.NumCPU()
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
// The terminal style falls back to glamour's own GLAMOUR_STYLE.
func (c *Config) LoadFromEnv() {
	if rules := os.Getenv(EnvRules); rules != "" {
		c.Rules = rules
	}
	if format := os.Getenv(EnvOutput); format != "" {
		c.OutputFormat = format
	}
	if list := os.Getenv(EnvPlugins); list != "" {
		c.Plugins = SplitList(list)
	}
	if workers := os.Getenv(EnvMaxWorkers); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			c.MaxWorkers = n
		}
	}
	if style := getEnvWithFallback(EnvTerminalStyle, EnvGlamourStyle); style != "" {
		c.TerminalStyle = style
	}
}

// SplitList splits a comma-separated list, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvWithFallback returns the value of the primary env var, or the fallback if primary is empty.
func getEnvWithFallback(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rtx", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}

// RuleSet loads the configured rule set and applies the plugin selection.
func (c *Config) RuleSet() (*ruleset.File, error) {
	var (
		f   *ruleset.File
		err error
	)
	if c.Rules == "" {
		f, err = ruleset.Default()
	} else {
		f, err = ruleset.Load(c.Rules)
	}
	if err != nil {
		return nil, err
	}
	if c.Plugins != nil {
		f.SelectPlugins(c.Plugins)
	}
	return f, nil
}
