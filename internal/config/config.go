// Package config loads tracker configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the tracker configuration loaded from YAML.
type Config struct {
	// Root is the tracker state directory holding feature records.
	Root string `yaml:"root"`

	// Changelog is the path of the JSONL changelog file. Empty disables
	// changelog emission.
	Changelog string `yaml:"changelog"`

	// Actor is recorded on every emitted event.
	Actor string `yaml:"actor"`

	// LockStale is how long a held feature lock survives before takeover,
	// as a duration string (e.g. "10m", "1h").
	LockStale string `yaml:"lock_stale,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Root:      ".rumbo",
		Changelog: ".rumbo/changelog.jsonl",
		Actor:     "agent",
		LockStale: "10m",
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if _, err := cfg.LockStaleDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads configuration from path, falling back to defaults
// when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LockStaleDuration parses the lock staleness threshold.
func (c *Config) LockStaleDuration() (time.Duration, error) {
	if c.LockStale == "" {
		return 10 * time.Minute, nil
	}
	d, err := time.ParseDuration(c.LockStale)
	if err != nil {
		return 0, fmt.Errorf("invalid lock_stale %q: %w", c.LockStale, err)
	}
	return d, nil
}
