package adb

import (
	"testing"
	"time"
)

// TestParseLsLine tests parsing of toybox ls -la output lines
func TestParseLsLine(t *testing.T) {
	t.Run("Directory", func(t *testing.T) {
		entry, ok := ParseLsLine("drwxrwx--- 2 root sdcard_rw 4096 2025-02-01 06:31 .NightPearl")
		if !ok {
			t.Fatal("ParseLsLine() ok = false")
		}
		if !entry.IsDir {
			t.Error("IsDir = false, want true")
		}
		if entry.Name != ".NightPearl" {
			t.Errorf("Name = %q, want .NightPearl", entry.Name)
		}
		if entry.Size != 4096 {
			t.Errorf("Size = %d, want 4096", entry.Size)
		}
		want := time.Date(2025, 2, 1, 6, 31, 0, 0, time.Local)
		if !entry.ModTime.Equal(want) {
			t.Errorf("ModTime = %v, want %v", entry.ModTime, want)
		}
	})

	t.Run("RegularFile", func(t *testing.T) {
		entry, ok := ParseLsLine("-rw-rw---- 1 root sdcard_rw 1048576 2024-12-25 18:02 IMG_20241225.jpg")
		if !ok {
			t.Fatal("ParseLsLine() ok = false")
		}
		if entry.IsDir || entry.IsSymlink {
			t.Error("plain file flagged as dir or symlink")
		}
		if entry.Size != 1048576 {
			t.Errorf("Size = %d, want 1048576", entry.Size)
		}
	})

	t.Run("NameWithSpaces", func(t *testing.T) {
		entry, ok := ParseLsLine("-rw-rw---- 1 root sdcard_rw 10 2025-01-01 00:00 My Holiday Photo.jpg")
		if !ok {
			t.Fatal("ParseLsLine() ok = false")
		}
		if entry.Name != "My Holiday Photo.jpg" {
			t.Errorf("Name = %q, want the full spaced name", entry.Name)
		}
	})

	t.Run("Symlink", func(t *testing.T) {
		entry, ok := ParseLsLine("lrwxrwxrwx 1 root root 21 2024-01-01 00:00 sdcard -> /storage/self/primary")
		if !ok {
			t.Fatal("ParseLsLine() ok = false")
		}
		if !entry.IsSymlink {
			t.Error("IsSymlink = false, want true")
		}
		if entry.Name != "sdcard" {
			t.Errorf("Name = %q, want target stripped", entry.Name)
		}
	})

	t.Run("DotEntriesSkipped", func(t *testing.T) {
		for _, name := range []string{".", ".."} {
			line := "drwxrwx--- 2 root sdcard_rw 4096 2025-02-01 06:31 " + name
			if _, ok := ParseLsLine(line); ok {
				t.Errorf("ParseLsLine() accepted %q entry", name)
			}
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, line := range []string{"", "total 128", "not enough fields"} {
			if _, ok := ParseLsLine(line); ok {
				t.Errorf("ParseLsLine(%q) ok = true, want false", line)
			}
		}
	})
}

// TestParseDevices tests `adb devices` output parsing
func TestParseDevices(t *testing.T) {
	out := "List of devices attached\n" +
		"emulator-5554\tdevice\n" +
		"0123456789ABCDEF\tunauthorized\n" +
		"\n"

	devices := parseDevices(out)
	if len(devices) != 2 {
		t.Fatalf("parseDevices() returned %d devices, want 2", len(devices))
	}

	if devices[0].ID != "emulator-5554" || devices[0].Status != "device" {
		t.Errorf("devices[0] = %+v", devices[0])
	}
	if !devices[0].Online() {
		t.Error("devices[0].Online() = false, want true")
	}

	if devices[1].Status != "unauthorized" {
		t.Errorf("devices[1].Status = %q, want unauthorized", devices[1].Status)
	}
	if devices[1].Online() {
		t.Error("unauthorized device reported online")
	}
}

// TestQuotePath tests shell quoting of device paths
func TestQuotePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/sdcard/DCIM", "'/sdcard/DCIM'"},
		{"/sdcard/My Photos", "'/sdcard/My Photos'"},
		{"/sdcard/it's here", `'/sdcard/it'\''s here'`},
	}

	for _, tc := range cases {
		if got := QuotePath(tc.in); got != tc.want {
			t.Errorf("QuotePath(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
