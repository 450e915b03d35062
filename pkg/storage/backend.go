package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path         string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	Permissions  uint32
	RelativePath string
}

// Backend defines the interface for one side of a sync session.
// Implementations include the local filesystem and an adb-connected
// Android device. Every call may fail independently; callers must not
// assume atomicity across a whole sync.
type Backend interface {
	// List returns the files under the specified directory. When
	// recursive is false only the immediate children are returned;
	// subdirectories appear as entries but are not descended into.
	List(ctx context.Context, path string, recursive bool) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content.
	// If metadata is provided, attempts to preserve timestamps.
	Write(ctx context.Context, path string, reader io.Reader, size int64, metadata *FileInfo) error

	// Delete removes a file or directory
	Delete(ctx context.Context, path string) error

	// Rename moves a file within the backend's root
	Rename(ctx context.Context, from, to string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
