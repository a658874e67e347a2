package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// configFile is the name of the user configuration file inside the shelf directory.
	configFile = "config.yaml"

	// Backend names.
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	// Default configuration values
	DefaultBackend        = BackendFile
	DefaultFaviconStagger = 200 * time.Millisecond
	DefaultSeedDefaults   = true
	DefaultUserAgent      = "shelf/1.0 (+favicon fetcher)"
)

// Config represents user configuration from config.yaml.
// This file is user-managed; shelf only writes it on init.
type Config struct {
	// Backend selects the namespace implementation: "file" or "sqlite".
	Backend string `yaml:"backend"`

	// SeedDefaults adds example links the first time a shelf is opened.
	SeedDefaults bool `yaml:"seed_defaults"`

	// UserAgent is sent with favicon requests.
	UserAgent string `yaml:"user_agent"`

	// FaviconStagger is the delay between favicon jobs in a sweep.
	FaviconStagger time.Duration `yaml:"-"`
	// FaviconTimeout bounds each favicon request. Zero keeps the transport default.
	FaviconTimeout time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	FaviconStaggerRaw string `yaml:"favicon_stagger,omitempty"`
	FaviconTimeoutRaw string `yaml:"favicon_timeout,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:        DefaultBackend,
		SeedDefaults:   DefaultSeedDefaults,
		UserAgent:      DefaultUserAgent,
		FaviconStagger: DefaultFaviconStagger,
	}
}

// LoadConfig loads config.yaml from dir if it exists, otherwise returns defaults.
// Partial config files are merged with defaults.
func LoadConfig(dir string) (*Config, error) {
	configPath := filepath.Join(dir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteConfig writes cfg to dir/config.yaml.
func WriteConfig(dir string, cfg *Config) error {
	out := *cfg
	out.FaviconStaggerRaw = cfg.FaviconStagger.String()
	if cfg.FaviconTimeout > 0 {
		out.FaviconTimeoutRaw = cfg.FaviconTimeout.String()
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFile, err)
	}
	return nil
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendFile, BackendSQLite)
	}
	if c.FaviconStagger < 0 {
		return fmt.Errorf("favicon_stagger must not be negative")
	}
	if c.FaviconTimeout < 0 {
		return fmt.Errorf("favicon_timeout must not be negative")
	}
	return nil
}

func (c *Config) parseDurations() error {
	var err error

	if c.FaviconStaggerRaw != "" {
		c.FaviconStagger, err = time.ParseDuration(c.FaviconStaggerRaw)
		if err != nil {
			return fmt.Errorf("parsing favicon_stagger %q: %w", c.FaviconStaggerRaw, err)
		}
	}

	if c.FaviconTimeoutRaw != "" {
		c.FaviconTimeout, err = time.ParseDuration(c.FaviconTimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing favicon_timeout %q: %w", c.FaviconTimeoutRaw, err)
		}
	}

	return nil
}
