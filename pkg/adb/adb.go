package adb

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Device represents a device reported by `adb devices`
type Device struct {
	ID     string
	Status string
}

// Online reports whether the device is ready for commands
func (d Device) Online() bool {
	return d.Status == "device"
}

// Client wraps the adb executable for a single device
type Client struct {
	adbPath string
	serial  string
}

// commonPaths are probed when adb is not configured explicitly.
// Locations cover Homebrew, MacPorts and Android Studio SDK installs.
var commonPaths = []string{
	"/opt/homebrew/bin/adb",
	"/usr/local/bin/adb",
	"/opt/local/bin/adb",
	"~/Library/Android/sdk/platform-tools/adb",
	"~/Android/Sdk/platform-tools/adb",
}

// FindPath locates the adb executable, checking common install locations
// before falling back to "adb" in PATH.
func FindPath() string {
	home, _ := os.UserHomeDir()

	for _, candidate := range commonPaths {
		path := candidate
		if strings.HasPrefix(path, "~/") {
			if home == "" {
				continue
			}
			path = filepath.Join(home, path[2:])
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "adb"
}

// NewClient creates a client for the given device serial. An empty adbPath
// triggers discovery via FindPath; an empty serial targets the only
// connected device.
func NewClient(adbPath, serial string) *Client {
	if adbPath == "" {
		adbPath = FindPath()
	}
	return &Client{
		adbPath: adbPath,
		serial:  serial,
	}
}

// Path returns the adb executable in use
func (c *Client) Path() string {
	return c.adbPath
}

// Command builds an exec.Cmd for the given adb arguments, inserting the
// device serial when one is configured
func (c *Client) Command(ctx context.Context, args ...string) *exec.Cmd {
	if c.serial != "" {
		args = append([]string{"-s", c.serial}, args...)
	}
	return exec.CommandContext(ctx, c.adbPath, args...)
}

// Shell runs a shell command on the device and returns its stdout
func (c *Client) Shell(ctx context.Context, args ...string) (string, error) {
	cmd := c.Command(ctx, append([]string{"shell"}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("adb shell %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Available checks whether the adb executable responds
func (c *Client) Available(ctx context.Context) bool {
	return c.Command(ctx, "version").Run() == nil
}

// Devices returns the devices currently known to the adb server
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	cmd := c.Command(ctx, "devices")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("adb devices: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseDevices(stdout.String()), nil
}

// parseDevices parses `adb devices` output, skipping the
// "List of devices attached" header
func parseDevices(out string) []Device {
	var devices []Device

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{ID: fields[0], Status: fields[1]})
	}

	return devices
}

// QuotePath quotes a device path for use inside an adb shell command
func QuotePath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
