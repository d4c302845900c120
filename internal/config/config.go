// Package config loads observer settings from a YAML file with environment
// overrides, then validates the result against an embedded CUE schema.
//
// Precedence, lowest to highest: defaults, settings file, environment.
// Settings are read once at loop start - never polled.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable the observer engine exposes.
type Config struct {
	// PollIntervalSeconds is the observation cadence.
	PollIntervalSeconds int `yaml:"poll_interval_seconds" json:"poll_interval_seconds" env:"KRONOS_POLL_INTERVAL_SECONDS"`

	// GapFactor is the suspend-gap reporting threshold, as a multiple of
	// the poll interval.
	GapFactor int `yaml:"gap_factor" json:"gap_factor" env:"KRONOS_GAP_FACTOR"`

	// BootWaitSeconds delays the first tick.
	BootWaitSeconds int `yaml:"boot_wait_seconds" json:"boot_wait_seconds" env:"KRONOS_BOOT_WAIT_SECONDS"`

	// Database is the SQLite path for the alert journal; empty disables
	// persistence.
	Database string `yaml:"database" json:"database" env:"KRONOS_DATABASE"`

	// FullMoonAlerts and SaturnAlerts enable the two alert kinds.
	FullMoonAlerts bool `yaml:"full_moon_alerts" json:"full_moon_alerts" env:"KRONOS_FULL_MOON_ALERTS"`
	SaturnAlerts   bool `yaml:"saturn_alerts" json:"saturn_alerts" env:"KRONOS_SATURN_ALERTS"`

	// SinkBuffer is the bounded hand-off queue capacity.
	SinkBuffer int `yaml:"sink_buffer" json:"sink_buffer" env:"KRONOS_SINK_BUFFER"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		PollIntervalSeconds: 60,
		GapFactor:           3,
		BootWaitSeconds:     0,
		Database:            "",
		FullMoonAlerts:      true,
		SaturnAlerts:        true,
		SinkBuffer:          16,
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file at path (skipped when path is empty), overlaid by environment
// variables, then schema-validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse settings file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PollInterval returns the cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// BootWait returns the first-tick delay as a duration.
func (c Config) BootWait() time.Duration {
	return time.Duration(c.BootWaitSeconds) * time.Second
}
