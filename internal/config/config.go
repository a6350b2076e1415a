package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a crmboard project.
type Config struct {
	Version    int              `yaml:"version"`
	Database   string           `yaml:"database"`              // relative to the config directory
	RefreshSec int              `yaml:"refresh_sec,omitempty"` // TUI poll interval (0 = default 2)
	Log        Log              `yaml:"log"`
	Drag       Drag             `yaml:"drag"`
	Dispatch   Dispatch         `yaml:"dispatch"`
	Boards     map[string]Board `yaml:"boards,omitempty"`
}

// Log configures logrus output.
type Log struct {
	Level string `yaml:"level"`          // debug, info, warn, error
	File  string `yaml:"file,omitempty"` // relative to the config directory; empty = stderr
}

// Drag configures the pointer gesture layer.
type Drag struct {
	ActivationDistance int `yaml:"activation_distance"` // cells the pointer must travel before a press becomes a drag
}

// Dispatch configures the background reclassification pool.
type Dispatch struct {
	Workers    int `yaml:"workers"`
	TimeoutSec int `yaml:"timeout_sec,omitempty"` // per patch (0 = default 10)
}

// Board holds per-variant overrides.
type Board struct {
	Titles map[string]string `yaml:"titles,omitempty"` // column id -> display title
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a starter config.
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		Database:   "crmboard.db",
		RefreshSec: 2,
		Log:        Log{Level: "info", File: "crmboard.log"},
		Drag:       Drag{ActivationDistance: 3},
		Dispatch:   Dispatch{Workers: 4, TimeoutSec: 10},
	}
}

func (c *Config) validate() error {
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Drag.ActivationDistance < 1 {
		return fmt.Errorf("drag.activation_distance must be at least 1, got %d", c.Drag.ActivationDistance)
	}
	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch.workers must be at least 1, got %d", c.Dispatch.Workers)
	}
	if c.Dispatch.TimeoutSec < 0 {
		return fmt.Errorf("dispatch.timeout_sec must not be negative")
	}
	if c.RefreshSec < 0 {
		return fmt.Errorf("refresh_sec must not be negative")
	}
	for name, b := range c.Boards {
		v, err := kanban.Lookup(name)
		if err != nil {
			return fmt.Errorf("boards: %w", err)
		}
		if _, err := v.WithTitles(b.Titles); err != nil {
			return fmt.Errorf("boards.%s.titles: %w", name, err)
		}
	}
	return nil
}

// Variant returns the named board variant with title overrides applied.
func (c *Config) Variant(v kanban.Variant) kanban.Variant {
	for name, b := range c.Boards {
		if lv, err := kanban.Lookup(name); err == nil && lv.Name == v.Name {
			if out, err := v.WithTitles(b.Titles); err == nil {
				return out
			}
		}
	}
	return v
}

// DispatchTimeout returns the effective per-patch timeout.
func (c *Config) DispatchTimeout() time.Duration {
	if c.Dispatch.TimeoutSec > 0 {
		return time.Duration(c.Dispatch.TimeoutSec) * time.Second
	}
	return 10 * time.Second
}

// RefreshInterval returns the effective TUI refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	if c.RefreshSec > 0 {
		return time.Duration(c.RefreshSec) * time.Second
	}
	return 2 * time.Second
}

// Resolve returns p relative to the directory holding the config file.
// Absolute paths and empty strings are returned unchanged.
func Resolve(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}
