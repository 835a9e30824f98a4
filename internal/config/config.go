// Package config provides runtime tuning configuration for join execution
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config tunes join execution. Every knob is an execution-strategy choice:
// none of them may change a join's result set.
type Config struct {
	// IndexCapacityHint pre-sizes the build index when the planner has no
	// estimate of its own (0 = no pre-sizing).
	IndexCapacityHint int `yaml:"index_capacity_hint"`
	// MaxBuildRows caps build index materialization; exceeding it fails
	// the execution with ResourceExhausted (0 = unlimited).
	MaxBuildRows int64 `yaml:"max_build_rows"`
	// SelectBuildSide lets Execute build on whichever side the planner
	// estimated smaller instead of always the left.
	SelectBuildSide bool `yaml:"select_build_side"`
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a configuration with default values
func NewConfig() Config {
	return Config{
		IndexCapacityHint: 0,
		MaxBuildRows:      0, // unlimited
		SelectBuildSide:   false,
	}
}

// GetConfig returns a copy of the global configuration
func GetConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the global configuration
func SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
	return nil
}

// Validate checks configuration bounds
func (c Config) Validate() error {
	if c.IndexCapacityHint < 0 {
		return fmt.Errorf("index_capacity_hint must be non-negative, got %d", c.IndexCapacityHint)
	}
	if c.MaxBuildRows < 0 {
		return fmt.Errorf("max_build_rows must be non-negative, got %d", c.MaxBuildRows)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applying environment
// overrides on top.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environment variable names for overrides
const (
	envIndexCapacityHint = "THETAJOIN_INDEX_CAPACITY_HINT"
	envMaxBuildRows      = "THETAJOIN_MAX_BUILD_ROWS"
	envSelectBuildSide   = "THETAJOIN_SELECT_BUILD_SIDE"
)

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envIndexCapacityHint); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IndexCapacityHint = n
		}
	}
	if v := os.Getenv(envMaxBuildRows); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBuildRows = n
		}
	}
	if v := os.Getenv(envSelectBuildSide); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SelectBuildSide = b
		}
	}
}
