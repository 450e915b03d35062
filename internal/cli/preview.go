package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajivm1991/DroidDock/pkg/output"
)

// NewPreviewCommand creates the preview command
func NewPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what a sync would do without transferring anything",
		Long: `Compare a local directory with a directory on the device and print
the plan a sync would execute. No files are touched.`,
		RunE: runPreview,
	}

	addSyncFlags(cmd)

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
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

	preview, err := engine.Preview(ctx, opts)
	if err != nil {
		return err
	}

	formatter := output.ForFormat(cfg.Output.Format)
	return formatter.Preview(os.Stdout, preview)
}
