// Package config loads vgrep settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/report"
)

// Config holds every setting a config file can provide. Command-line flags
// that were set explicitly take precedence over these values.
type Config struct {
	Workers        int
	Engine         string
	Color          string
	Hidden         bool
	Exclude        []string
	FollowSymlinks bool
	Verbose        int
	SSH            SSHConfig
}

// SSHConfig holds connection settings for remote search.
type SSHConfig struct {
	Port    int
	Batch   bool
	Timeout time.Duration
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers: 0,
		Engine:  string(pattern.EngineRE2),
		Color:   string(report.ColorAuto),
		Hidden:  true,
		Exclude: []string{},
		SSH: SSHConfig{
			Port:    22,
			Timeout: 15 * time.Second,
		},
	}
}

// Load reads the config file at path on top of the defaults. An empty path
// returns the defaults. A path that does not exist is an error, since it was
// asked for by name.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointers distinguish "absent" from the zero value
	type yamlSSH struct {
		Port    int    `yaml:"port"`
		Batch   *bool  `yaml:"batch"`
		Timeout string `yaml:"timeout"`
	}
	type yamlConfig struct {
		Workers        int      `yaml:"workers"`
		Engine         string   `yaml:"engine"`
		Color          string   `yaml:"color"`
		Hidden         *bool    `yaml:"hidden"`
		Exclude        []string `yaml:"exclude"`
		FollowSymlinks *bool    `yaml:"follow_symlinks"`
		Verbose        int      `yaml:"verbose"`
		SSH            yamlSSH  `yaml:"ssh"`
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Engine != "" {
		cfg.Engine = yc.Engine
	}
	if yc.Color != "" {
		cfg.Color = yc.Color
	}
	if yc.Hidden != nil {
		cfg.Hidden = *yc.Hidden
	}
	if yc.Exclude != nil {
		cfg.Exclude = yc.Exclude
	}
	if yc.FollowSymlinks != nil {
		cfg.FollowSymlinks = *yc.FollowSymlinks
	}
	if yc.Verbose != 0 {
		cfg.Verbose = yc.Verbose
	}
	if yc.SSH.Port != 0 {
		cfg.SSH.Port = yc.SSH.Port
	}
	if yc.SSH.Batch != nil {
		cfg.SSH.Batch = *yc.SSH.Batch
	}
	if yc.SSH.Timeout != "" {
		d, err := time.ParseDuration(yc.SSH.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid ssh.timeout %q: %w", yc.SSH.Timeout, err)
		}
		cfg.SSH.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := pattern.ParseEngine(c.Engine); err != nil {
		return err
	}
	if _, err := report.ParseColorMode(c.Color); err != nil {
		return err
	}
	if c.Verbose < 0 {
		return fmt.Errorf("verbose must be >= 0, got %d", c.Verbose)
	}
	if c.SSH.Port < 1 || c.SSH.Port > 65535 {
		return fmt.Errorf("ssh.port must be in 1..65535, got %d", c.SSH.Port)
	}
	if c.SSH.Timeout <= 0 {
		return fmt.Errorf("ssh.timeout must be positive, got %s", c.SSH.Timeout)
	}
	return nil
}
