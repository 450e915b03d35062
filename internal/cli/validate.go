package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rajivm1991/DroidDock/pkg/config"
	"github.com/rajivm1991/DroidDock/pkg/logging"
	"github.com/rajivm1991/DroidDock/pkg/models"
)

// validateSyncFlags validates the sync command flags
func validateSyncFlags() error {
	info, err := os.Stat(syncFlags.Local)
	if os.IsNotExist(err) {
		return fmt.Errorf("local path does not exist: %s", syncFlags.Local)
	} else if err != nil {
		return fmt.Errorf("failed to access local path: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("local path is not a directory: %s", syncFlags.Local)
	}

	if !strings.HasPrefix(syncFlags.Device, "/") {
		return fmt.Errorf("device path must be absolute: %s", syncFlags.Device)
	}

	validDirections := map[string]bool{
		string(models.LocalToRemote): true,
		string(models.RemoteToLocal): true,
		string(models.BothWays):      true,
	}
	if !validDirections[syncFlags.Direction] {
		return fmt.Errorf("invalid direction: %s (valid: local-to-remote, remote-to-local, both)", syncFlags.Direction)
	}

	validMatchModes := map[string]bool{
		string(models.MatchByPath):    true,
		string(models.MatchByContent): true,
	}
	if !validMatchModes[syncFlags.Match] {
		return fmt.Errorf("invalid match mode: %s (valid: path, content)", syncFlags.Match)
	}

	if syncFlags.Bandwidth != "" {
		if _, err := parseBandwidth(syncFlags.Bandwidth); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config, changed func(string) bool) {
	if changed("direction") {
		cfg.Sync.Direction = models.Direction(syncFlags.Direction)
	}
	if changed("match") {
		cfg.Sync.MatchMode = models.MatchMode(syncFlags.Match)
	}
	if changed("delete") {
		cfg.Sync.DeleteMissing = syncFlags.Delete
	}
	if changed("no-recursive") {
		cfg.Sync.Recursive = !syncFlags.NoRecursive
	}
	if syncFlags.Serial != "" {
		cfg.Device.Serial = syncFlags.Serial
	}
	if syncFlags.AdbPath != "" {
		cfg.Device.AdbPath = syncFlags.AdbPath
	}
	if syncFlags.Bandwidth != "" {
		limit, _ := parseBandwidth(syncFlags.Bandwidth)
		cfg.Performance.BandwidthLimit = limit
	}
	if len(syncFlags.Exclude) > 0 {
		cfg.Exclude = syncFlags.Exclude
	}
	if changed("output") {
		cfg.Output.Format = syncFlags.Output
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
	// JSON output streams a single document, no bar
	if cfg.Output.Format == "json" {
		cfg.Output.Progress = false
	}
}

// buildSyncOptions assembles sync options from flags and configuration
func buildSyncOptions(cfg *config.Config) (models.SyncOptions, error) {
	local, err := filepath.Abs(syncFlags.Local)
	if err != nil {
		return models.SyncOptions{}, fmt.Errorf("failed to resolve local path: %w", err)
	}

	opts := models.SyncOptions{
		LocalPath:     local,
		DevicePath:    syncFlags.Device,
		Direction:     cfg.Sync.Direction,
		Recursive:     cfg.Sync.Recursive,
		DeleteMissing: cfg.Sync.DeleteMissing,
		MatchMode:     cfg.Sync.MatchMode,
	}

	if err := opts.Validate(); err != nil {
		return models.SyncOptions{}, err
	}

	return opts, nil
}

// parseBandwidth parses a bandwidth limit like "500K", "10M" or "1G"
// into bytes per second
func parseBandwidth(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	multiplier := int64(1)
	switch suffix := value[len(value)-1]; suffix {
	case 'k', 'K':
		multiplier = 1024
		value = value[:len(value)-1]
	case 'm', 'M':
		multiplier = 1024 * 1024
		value = value[:len(value)-1]
	case 'g', 'G':
		multiplier = 1024 * 1024 * 1024
		value = value[:len(value)-1]
	}

	number, err := strconv.ParseInt(value, 10, 64)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("invalid bandwidth limit: %q (use e.g. 500K, 10M, 1G)", value)
	}

	return number * multiplier, nil
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if globalFlags.Verbose {
		level = logging.DebugLevel
	}

	return logging.NewZerolog(logging.ZerologConfig{
		Path:    cfg.Logging.File,
		Console: cfg.Logging.Format == "console",
		Level:   level,
	})
}
