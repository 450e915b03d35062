package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajivm1991/DroidDock/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "droiddock",
		Short: "Sync directories between your computer and an Android device",
		Long: `droiddock synchronizes a local directory with a directory on an
Android device connected over adb. It previews every change before
applying it and supports one-way and bidirectional sync with
content-based rename detection.`,
		Version:       cli.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewSyncCommand())
	rootCmd.AddCommand(cli.NewPreviewCommand())
	rootCmd.AddCommand(cli.NewDevicesCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
