// Package config loads boolnetctl settings from a YAML file and BOOLNET_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"boolnet/internal/logging"
	"boolnet/internal/storage"
)

const DefaultMaxSteps = 1024

type Config struct {
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Simulate SimulateConfig `json:"simulate" yaml:"simulate"`
}

type LoggingConfig struct {
	// Level is "info" (default), "debug" or "trace".
	Level string `json:"level" yaml:"level"`
}

type StoreConfig struct {
	// Kind selects the backend: "memory", "sqlite" or "bolt".
	Kind string `json:"kind" yaml:"kind"`
	// Path is the database file of the sqlite and bolt backends.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

type SimulateConfig struct {
	// MaxSteps bounds attractor searches.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`
}

func Default() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: "info"},
		Store:    StoreConfig{Kind: storage.DefaultStoreKind()},
		Simulate: SimulateConfig{MaxSteps: DefaultMaxSteps},
	}
}

// Load reads path over the defaults and then applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}
	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", c.Logging.Level)
	}
	switch c.Store.Kind {
	case "", storage.KindMemory:
	case storage.KindSQLite, storage.KindBolt:
		if c.Store.Path == "" {
			return fmt.Errorf("store kind %s requires a path", c.Store.Kind)
		}
	default:
		return fmt.Errorf("invalid store kind: %s (valid: memory, sqlite, bolt)", c.Store.Kind)
	}
	if c.Simulate.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.Simulate.MaxSteps)
	}
	return nil
}

func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("BOOLNET_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("BOOLNET_STORE_KIND"); v != "" {
		config.Store.Kind = v
	}
	if v := os.Getenv("BOOLNET_STORE_PATH"); v != "" {
		config.Store.Path = v
	}
	if v := os.Getenv("BOOLNET_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BOOLNET_MAX_STEPS: %w", err)
		}
		config.Simulate.MaxSteps = n
	}
	return nil
}
