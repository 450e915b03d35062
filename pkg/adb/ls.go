package adb

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Entry represents one line of `ls -la` output from the device
type Entry struct {
	Name        string
	Permissions string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	IsSymlink   bool
}

// lsTimeLayout matches the toybox ls -la date/time columns,
// e.g. "2025-02-01 06:31"
const lsTimeLayout = "2006-01-02 15:04"

// List runs `ls -la` on a device directory and parses the result
func (c *Client) List(ctx context.Context, path string) ([]Entry, error) {
	out, err := c.Shell(ctx, "ls", "-la", QuotePath(path))
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "total") {
			continue
		}
		if entry, ok := ParseLsLine(line); ok {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

// ParseLsLine parses a single line of Android `ls -la` output.
// Format: permissions links owner group size date time name
// Example: drwxrwx--- 2 root sdcard_rw 4096 2025-02-01 06:31 .NightPearl
// The size column can be absent for some special entries, so fields are
// located relative to the time column (the one containing ':').
func ParseLsLine(line string) (Entry, bool) {
	parts := strings.Fields(line)
	if len(parts) < 7 {
		return Entry{}, false
	}

	permissions := parts[0]

	// Find the time field
	timeIdx := -1
	for i, p := range parts {
		if strings.Contains(p, ":") {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 || timeIdx+1 >= len(parts) {
		return Entry{}, false
	}

	name := strings.Join(parts[timeIdx+1:], " ")

	// Symlinks list as "name -> target"
	isSymlink := strings.HasPrefix(permissions, "l")
	if isSymlink {
		if idx := strings.Index(name, " -> "); idx >= 0 {
			name = name[:idx]
		}
	}

	if name == "." || name == ".." || name == "" {
		return Entry{}, false
	}

	var modTime time.Time
	if timeIdx >= 1 {
		if t, err := time.ParseInLocation(lsTimeLayout, parts[timeIdx-1]+" "+parts[timeIdx], time.Local); err == nil {
			modTime = t
		}
	}

	var size int64
	if timeIdx >= 2 {
		size, _ = strconv.ParseInt(parts[timeIdx-2], 10, 64)
	}

	return Entry{
		Name:        name,
		Permissions: permissions,
		Size:        size,
		ModTime:     modTime,
		IsDir:       strings.HasPrefix(permissions, "d"),
		IsSymlink:   isSymlink,
	}, true
}
