package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajivm1991/DroidDock/pkg/adb"
)

// NewDevicesCommand creates the devices command
func NewDevicesCommand() *cobra.Command {
	var adbPath string

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List connected Android devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if adbPath == "" {
				adbPath = adb.FindPath()
			}
			if adbPath == "" {
				return fmt.Errorf("adb not found; install platform-tools or set --adb-path")
			}

			client := adb.NewClient(adbPath, "")
			devices, err := client.Devices(ctx)
			if err != nil {
				return fmt.Errorf("failed to list devices: %w", err)
			}

			if len(devices) == 0 {
				fmt.Println("No devices connected")
				return nil
			}

			for _, device := range devices {
				fmt.Printf("%-24s %s\n", device.ID, device.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&adbPath, "adb-path", "", "path to the adb binary")

	return cmd
}
