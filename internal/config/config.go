// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	HTTP      HTTPConfig      `yaml:"http"`
	Jobs      JobsConfig      `yaml:"jobs"`
	LogLevel  string          `yaml:"log_level"`
}

// DatabaseConfig selects the SQLite database file.
type DatabaseConfig struct {
	// Path is the SQLite file path; ":memory:" keeps everything in RAM.
	Path string `yaml:"path"`
}

// SchedulerConfig tunes the polling loop.
type SchedulerConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// HTTPConfig tunes the REST server.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// JobsConfig tunes the shipped jobs.
type JobsConfig struct {
	// NotifyFailureRate is the simulated failure probability of the
	// notify job, in [0, 1].
	NotifyFailureRate float64 `yaml:"notify_failure_rate"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database:  DatabaseConfig{Path: "dagrun.db"},
		Scheduler: SchedulerConfig{PollInterval: 500 * time.Millisecond},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Jobs:     JobsConfig{NotifyFailureRate: 0.3},
		LogLevel: "info",
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler.poll_interval must be positive")
	}
	if c.HTTP.Address == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.Jobs.NotifyFailureRate < 0 || c.Jobs.NotifyFailureRate > 1 {
		return fmt.Errorf("jobs.notify_failure_rate must be within [0, 1]")
	}
	return nil
}
