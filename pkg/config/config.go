package config

import (
	"github.com/rajivm1991/DroidDock/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Sync        SyncConfig        `yaml:"sync"`
	Device      DeviceConfig      `yaml:"device"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// SyncConfig holds sync-related settings
type SyncConfig struct {
	Direction     models.Direction `yaml:"direction"`
	MatchMode     models.MatchMode `yaml:"match_mode"`
	DeleteMissing bool             `yaml:"delete_missing"`
	Recursive     bool             `yaml:"recursive"`
}

// DeviceConfig holds Android device settings
type DeviceConfig struct {
	Serial  string `yaml:"serial"`   // Device serial; empty uses the only connected device
	AdbPath string `yaml:"adb_path"` // Path to adb binary; empty searches common locations
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // Bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "console"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Direction:     models.LocalToRemote,
			MatchMode:     models.MatchByPath,
			DeleteMissing: false,
			Recursive:     true,
		},
		Device: DeviceConfig{
			Serial:  "",
			AdbPath: "",
		},
		Performance: PerformanceConfig{
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
		Exclude: []string{
			"*.tmp",
			".git/",
			".thumbnails/",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Sync.Direction {
	case models.LocalToRemote, models.RemoteToLocal, models.BothWays:
	default:
		return &models.ValidationError{
			Field:   "sync.direction",
			Message: "must be 'local-to-remote', 'remote-to-local', or 'both'",
		}
	}

	switch c.Sync.MatchMode {
	case models.MatchByPath, models.MatchByContent:
	default:
		return &models.ValidationError{
			Field:   "sync.match_mode",
			Message: "must be 'path' or 'content'",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'console'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
