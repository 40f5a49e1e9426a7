package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the reqline configuration
type Config struct {
	Timeout           int               `yaml:"timeout,omitempty"` // milliseconds
	FollowRedirects   *bool             `yaml:"followRedirects,omitempty"`
	MaxRedirects      int               `yaml:"maxRedirects,omitempty"`
	ValidateSSL       *bool             `yaml:"validateSSL,omitempty"`
	AcceptAllStatuses *bool             `yaml:"acceptAllStatuses,omitempty"`
	Proxy             string            `yaml:"proxy,omitempty"`
	Headers           map[string]string `yaml:"headers,omitempty"` // default headers for every request
	Variables         map[string]string `yaml:"variables,omitempty"` // values for {{name}} placeholders
	Server            ServerConfig      `yaml:"server,omitempty"`
	History           HistoryConfig     `yaml:"history,omitempty"`
	Log               LogConfig         `yaml:"log,omitempty"`
	NoColor           *bool             `yaml:"noColor,omitempty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // text or json
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

func (c *Config) GetAcceptAllStatuses() bool {
	return getBool(c.AcceptAllStatuses, false)
}

func (c *Config) GetHistoryEnabled() bool {
	return getBool(c.History.Enabled, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration converts the millisecond timeout to a time.Duration
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names, in lookup order
var ConfigFilenames = []string{
	".reqline.yaml",
	"reqline.yaml",
	".reqlinerc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config := DefaultConfig().Merge(&fileConfig)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("maxRedirects cannot be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.Log.Format)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Server.Addr != "" {
		result.Server.Addr = other.Server.Addr
	}
	if other.History.Path != "" {
		result.History.Path = other.History.Path
	}
	if other.Log.Level != "" {
		result.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		result.Log.Format = other.Log.Format
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.AcceptAllStatuses != nil {
		result.AcceptAllStatuses = other.AcceptAllStatuses
	}
	if other.History.Enabled != nil {
		result.History.Enabled = other.History.Enabled
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}
	if len(other.Variables) > 0 {
		variables := make(map[string]string, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			variables[k] = v
		}
		for k, v := range other.Variables {
			variables[k] = v
		}
		result.Variables = variables
	}

	return &result
}

// SaveConfig writes the configuration to path as YAML
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
