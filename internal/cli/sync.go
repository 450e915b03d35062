package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/rajivm1991/DroidDock/pkg/adb"
	"github.com/rajivm1991/DroidDock/pkg/config"
	"github.com/rajivm1991/DroidDock/pkg/logging"
	"github.com/rajivm1991/DroidDock/pkg/models"
	"github.com/rajivm1991/DroidDock/pkg/output"
	"github.com/rajivm1991/DroidDock/pkg/ratelimit"
	"github.com/rajivm1991/DroidDock/pkg/storage"
	"github.com/rajivm1991/DroidDock/pkg/sync"
)

// SyncFlags holds sync command flags
type SyncFlags struct {
	Local       string
	Device      string
	Direction   string
	Match       string
	Delete      bool
	NoRecursive bool
	Serial      string
	AdbPath     string
	Bandwidth   string
	Exclude     []string
	Output      string
	Yes         bool
}

var syncFlags SyncFlags

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize a local directory with an Android device",
		Long: `Synchronize files between a local directory and a directory on an
Android device connected over adb. Shows the planned actions first and
asks for confirmation before transferring anything.`,
		RunE: runSync,
	}

	addSyncFlags(cmd)
	cmd.Flags().BoolVarP(&syncFlags.Yes, "yes", "y", false, "apply the plan without asking for confirmation")

	return cmd
}

// addSyncFlags registers the flags shared by sync and preview
func addSyncFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&syncFlags.Local, "local", "l", "", "local directory path (required)")
	cmd.Flags().StringVarP(&syncFlags.Device, "device", "d", "", "absolute directory path on the device (required)")
	cmd.MarkFlagRequired("local")
	cmd.MarkFlagRequired("device")

	cmd.Flags().StringVar(&syncFlags.Direction, "direction", "local-to-remote", "sync direction: local-to-remote, remote-to-local, both")
	cmd.Flags().StringVar(&syncFlags.Match, "match", "path", "file matching mode: path, content")
	cmd.Flags().BoolVar(&syncFlags.Delete, "delete", false, "delete destination files missing from the source")
	cmd.Flags().BoolVar(&syncFlags.NoRecursive, "no-recursive", false, "only sync the top-level directory")
	cmd.Flags().StringVarP(&syncFlags.Serial, "serial", "s", "", "device serial (default: the only connected device)")
	cmd.Flags().StringVar(&syncFlags.AdbPath, "adb-path", "", "path to the adb binary")
	cmd.Flags().StringVarP(&syncFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g. \"500K\", \"10M\")")
	cmd.Flags().StringSliceVar(&syncFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&syncFlags.Output, "output", "o", "human", "output format: human, json")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := validateSyncFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagsToConfig(cfg, cmd.Flags().Changed)

	opts, err := buildSyncOptions(cfg)
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	engine, cleanup, err := buildEngine(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	formatter := output.ForFormat(cfg.Output.Format)

	preview, err := engine.Preview(ctx, opts)
	if err != nil {
		formatter.Error(os.Stderr, err)
		os.Exit(2)
	}

	if !cfg.Output.Quiet {
		formatter.Preview(os.Stdout, preview)
	}

	if preview.InSync() {
		return nil
	}

	if !syncFlags.Yes && cfg.Output.Format != "json" && !cfg.Output.Quiet {
		if !confirm(fmt.Sprintf("Apply %d actions", preview.TransferCount())) {
			fmt.Fprintln(os.Stdout, "Aborted")
			return nil
		}
	}

	progress := make(chan models.SyncProgress, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if cfg.Output.Progress {
			output.ShowProgress(os.Stdout, progress)
		} else {
			output.DrainProgress(progress)
		}
	}()

	result, err := engine.ExecutePlan(ctx, preview, progress)
	<-done
	if err != nil {
		formatter.Error(os.Stderr, err)
		os.Exit(2)
	}

	if !cfg.Output.Quiet || result.ErrorCount > 0 {
		formatter.Result(os.Stdout, result)
	}

	os.Exit(result.ExitCode())
	return nil
}

// buildEngine wires the storage backends, bandwidth limiter and sync
// engine for the given options. The returned cleanup closes both
// backends.
func buildEngine(ctx context.Context, cfg *config.Config, opts models.SyncOptions, logger logging.Logger) (*sync.Engine, func(), error) {
	local, remote, err := newBackends(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	transfer := sync.PortFromBackends(local, remote, newLimiter(cfg))
	engine := sync.NewEngine(local, remote, transfer, logger)
	engine.Exclude = cfg.Exclude
	engine.BufferSize = cfg.Performance.BufferSize

	cleanup := func() {
		remote.Close()
		local.Close()
	}
	return engine, cleanup, nil
}

// confirm asks the user a yes/no question on the terminal
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	answer, err := prompt.Run()
	if err != nil {
		// promptui returns an error for "n" and for ctrl-c
		return false
	}

	return strings.EqualFold(answer, "y")
}

// resolveClient finds adb and picks the device to talk to
func resolveClient(ctx context.Context, cfg *config.Config) (*adb.Client, error) {
	adbPath := cfg.Device.AdbPath
	if adbPath == "" {
		adbPath = adb.FindPath()
	}
	if adbPath == "" {
		return nil, fmt.Errorf("adb not found; install platform-tools or set --adb-path")
	}

	probe := adb.NewClient(adbPath, "")
	devices, err := probe.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	serial := cfg.Device.Serial
	if serial == "" {
		var online []adb.Device
		for _, device := range devices {
			if device.Online() {
				online = append(online, device)
			}
		}
		switch len(online) {
		case 0:
			return nil, fmt.Errorf("no device connected")
		case 1:
			serial = online[0].ID
		default:
			return nil, fmt.Errorf("%d devices connected, pick one with --serial", len(online))
		}
	} else {
		found := false
		for _, device := range devices {
			if device.ID == serial && device.Online() {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("device %s is not connected", serial)
		}
	}

	return adb.NewClient(adbPath, serial), nil
}

// newBackends creates the local and device storage backends
func newBackends(ctx context.Context, cfg *config.Config, opts models.SyncOptions) (*storage.Local, *storage.Adb, error) {
	local, err := storage.NewLocal(opts.LocalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local directory: %w", err)
	}

	client, err := resolveClient(ctx, cfg)
	if err != nil {
		local.Close()
		return nil, nil, err
	}

	remote, err := storage.NewAdb(ctx, client, opts.DevicePath)
	if err != nil {
		local.Close()
		return nil, nil, fmt.Errorf("failed to open device directory: %w", err)
	}

	return local, remote, nil
}

// newLimiter builds the bandwidth limiter, nil when unlimited
func newLimiter(cfg *config.Config) *ratelimit.Limiter {
	if cfg.Performance.BandwidthLimit <= 0 {
		return nil
	}
	return ratelimit.NewLimiter(cfg.Performance.BandwidthLimit)
}
