package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rajivm1991/DroidDock/pkg/adb"
)

// Adb is a storage backend rooted at a directory on an Android device,
// reached through the adb executable. Paths handed to the backend are
// POSIX-style and relative to the configured root.
type Adb struct {
	client   *adb.Client
	rootPath string
}

// NewAdb creates a device backend rooted at rootPath. The root must
// already exist on the device.
func NewAdb(ctx context.Context, client *adb.Client, rootPath string) (*Adb, error) {
	rootPath = path.Clean(rootPath)

	b := &Adb{client: client, rootPath: rootPath}

	info, err := b.Stat(ctx, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to access device path: %w", err)
	}
	if !info.IsDir {
		return nil, fmt.Errorf("device path is not a directory: %s", rootPath)
	}

	return b, nil
}

func (b *Adb) devicePath(rel string) string {
	if rel == "" || rel == "." {
		return b.rootPath
	}
	return path.Join(b.rootPath, rel)
}

// List returns the files under the directory via `ls -la` on the device
func (b *Adb) List(ctx context.Context, p string, recursive bool) ([]FileInfo, error) {
	var files []FileInfo

	// Breadth-first over device directories; a single `ls` round-trip
	// per directory keeps adb traffic manageable.
	pending := []string{p}
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dir := pending[0]
		pending = pending[1:]

		entries, err := b.client.List(ctx, b.devicePath(dir))
		if err != nil {
			return nil, fmt.Errorf("failed to list device files: %w", err)
		}

		for _, entry := range entries {
			rel := path.Join(dir, entry.Name)
			if rel == "." {
				rel = entry.Name
			}
			files = append(files, FileInfo{
				Path:         b.devicePath(rel),
				Size:         entry.Size,
				ModTime:      entry.ModTime,
				IsDir:        entry.IsDir,
				RelativePath: strings.TrimPrefix(path.Clean(rel), "./"),
			})

			if entry.IsDir && recursive {
				pending = append(pending, rel)
			}
		}
	}

	return files, nil
}

// Read streams a device file through `adb exec-out cat`
func (b *Adb) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	cmd := b.client.Command(ctx, "exec-out", "cat", adb.QuotePath(b.devicePath(p)))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open device file: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to open device file: %w", err)
	}

	return &cmdReader{reader: stdout, wait: cmd.Wait}, nil
}

// cmdReader closes the pipe and reaps the adb process on Close
type cmdReader struct {
	reader io.ReadCloser
	wait   func() error
}

func (r *cmdReader) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *cmdReader) Close() error {
	r.reader.Close()
	return r.wait()
}

// Write stages the content in a temp file and pushes it to the device.
// adb push has no streaming mode, so the staging copy is unavoidable.
func (b *Adb) Write(ctx context.Context, p string, reader io.Reader, size int64, metadata *FileInfo) error {
	tmp, err := os.CreateTemp("", "droiddock-push-*")
	if err != nil {
		return fmt.Errorf("failed to stage file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	written, err := io.Copy(tmp, reader)
	if err != nil {
		return fmt.Errorf("failed to stage file: %w", err)
	}
	if written != size {
		return fmt.Errorf("incomplete write: expected %d bytes, wrote %d", size, written)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to stage file: %w", err)
	}

	target := b.devicePath(p)
	if err := b.MkdirAll(ctx, path.Dir(p)); err != nil {
		return err
	}

	if out, err := b.client.Command(ctx, "push", tmp.Name(), target).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to push file: %w: %s", err, strings.TrimSpace(string(out)))
	}

	// Preserve modification time if provided. Toybox touch wants the
	// ISO form with a literal T separator.
	if metadata != nil && !metadata.ModTime.IsZero() {
		stamp := metadata.ModTime.Format("2006-01-02T15:04:05")
		if _, err := b.client.Shell(ctx, "touch", "-m", "-d", stamp, adb.QuotePath(target)); err != nil {
			return fmt.Errorf("failed to set modification time: %w", err)
		}
	}

	return nil
}

// Delete removes a file or directory on the device
func (b *Adb) Delete(ctx context.Context, p string) error {
	if _, err := b.client.Shell(ctx, "rm", "-rf", adb.QuotePath(b.devicePath(p))); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// Rename moves a file on the device
func (b *Adb) Rename(ctx context.Context, from, to string) error {
	if err := b.MkdirAll(ctx, path.Dir(to)); err != nil {
		return err
	}
	if _, err := b.client.Shell(ctx, "mv", adb.QuotePath(b.devicePath(from)), adb.QuotePath(b.devicePath(to))); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// Exists checks if a path exists on the device
func (b *Adb) Exists(ctx context.Context, p string) (bool, error) {
	_, err := b.client.Shell(ctx, "test", "-e", adb.QuotePath(b.devicePath(p)))
	if err == nil {
		return true, nil
	}
	// test(1) signals absence through its exit code
	return false, nil
}

// Stat returns file metadata via toybox stat
func (b *Adb) Stat(ctx context.Context, p string) (*FileInfo, error) {
	full := b.devicePath(p)

	out, err := b.client.Shell(ctx, "stat", "-c", "'%F|%s|%Y'", adb.QuotePath(full))
	if err != nil {
		return nil, fmt.Errorf("failed to stat device file: %w", err)
	}

	fields := strings.SplitN(strings.TrimSpace(out), "|", 3)
	if len(fields) != 3 {
		return nil, fmt.Errorf("failed to stat device file: unexpected output %q", out)
	}

	size, _ := strconv.ParseInt(fields[1], 10, 64)
	epoch, _ := strconv.ParseInt(fields[2], 10, 64)

	rel := p
	if rel == "" || rel == "." {
		rel = "."
	}

	return &FileInfo{
		Path:         full,
		Size:         size,
		ModTime:      time.Unix(epoch, 0),
		IsDir:        strings.Contains(fields[0], "directory"),
		RelativePath: rel,
	}, nil
}

// MkdirAll creates a directory and all necessary parents on the device
func (b *Adb) MkdirAll(ctx context.Context, p string) error {
	if p == "" || p == "." {
		return nil
	}
	if _, err := b.client.Shell(ctx, "mkdir", "-p", adb.QuotePath(b.devicePath(p))); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// Close releases resources (no-op, adb manages its own connection)
func (b *Adb) Close() error {
	return nil
}
