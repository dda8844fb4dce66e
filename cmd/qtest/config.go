package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var errBadConfig = errors.New("invalid configuration")

type Config struct {
	Fail      int           `yaml:"fail"`
	FailAfter int           `yaml:"fail_after"`
	Seed      uint64        `yaml:"seed"`
	Length    int           `yaml:"length"`
	TimeLimit time.Duration `yaml:"time_limit"`
	Verbose   bool          `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		Seed:      1,
		Length:    1024,
		TimeLimit: time.Second,
	}
}

// LoadConfig reads the YAML file at path on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	if cfg.Fail < 0 || cfg.Fail > 100 {
		return fmt.Errorf("%w: fail must be between 0 and 100, got %v", errBadConfig, cfg.Fail)
	}
	if cfg.FailAfter < 0 {
		return fmt.Errorf("%w: fail_after must not be negative, got %v", errBadConfig, cfg.FailAfter)
	}
	if cfg.Length < 1 {
		return fmt.Errorf("%w: length must be at least 1, got %v", errBadConfig, cfg.Length)
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("%w: time_limit must not be negative, got %v", errBadConfig, cfg.TimeLimit)
	}
	return nil
}
