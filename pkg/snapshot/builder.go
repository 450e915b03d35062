package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rajivm1991/DroidDock/pkg/models"
	"github.com/rajivm1991/DroidDock/pkg/storage"
)

// Options configures snapshot building
type Options struct {
	// HashContent computes a content digest per regular file. This is
	// the dominant cost of a content-mode sync: every file on both
	// sides is read in full. Slower.
	HashContent bool

	// Exclude lists glob patterns for housekeeping entries that should
	// not participate in the sync (thumbnails, trash dirs, ...)
	Exclude []string

	// BufferSize for hashing reads; defaults to 64 KiB
	BufferSize int
}

// Builder walks one filesystem root and produces a Snapshot
type Builder struct {
	backend storage.Backend
	origin  models.Origin
	opts    Options
}

// NewBuilder creates a snapshot builder for one side of a sync session
func NewBuilder(backend storage.Backend, origin models.Origin, opts Options) *Builder {
	if opts.BufferSize < 4096 {
		opts.BufferSize = 64 * 1024
	}
	return &Builder{
		backend: backend,
		origin:  origin,
		opts:    opts,
	}
}

// Build walks the root and returns its snapshot. The walk itself is
// sequential; failure to list the root is fatal since no meaningful plan
// can be built from a partial snapshot.
func (b *Builder) Build(ctx context.Context, recursive bool) (*models.Snapshot, error) {
	files, err := b.backend.List(ctx, "", recursive)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s root: %w", b.origin, err)
	}

	snap := models.NewSnapshot(b.origin)

	for _, f := range files {
		if f.RelativePath == "." || f.RelativePath == "" {
			continue
		}
		if shouldExclude(f.RelativePath, b.opts.Exclude) {
			continue
		}

		rec := models.FileRecord{
			RelativePath: f.RelativePath,
			Size:         f.Size,
			ModTime:      f.ModTime,
			IsDir:        f.IsDir,
		}

		// Directories and symlinks contribute no content hash
		if b.opts.HashContent && !f.IsDir {
			hash, err := b.hashFile(ctx, f.RelativePath)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: hash %s: %w", b.origin, f.RelativePath, err)
			}
			rec.Hash = hash
		}

		snap.Add(rec)
	}

	return snap, nil
}

// hashFile computes the xxhash digest of one file, checking for
// cancellation between reads so content-mode builds stay interruptible
func (b *Builder) hashFile(ctx context.Context, relativePath string) (string, error) {
	reader, err := b.backend.Read(ctx, relativePath)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	hasher := xxhash.New()
	buffer := make([]byte, b.opts.BufferSize)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// BuildPair builds the local and remote snapshots concurrently; the two
// walks touch independent roots
func BuildPair(ctx context.Context, local, remote *Builder, recursive bool) (*models.Snapshot, *models.Snapshot, error) {
	var localSnap, remoteSnap *models.Snapshot

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		localSnap, err = local.Build(gCtx, recursive)
		return err
	})
	g.Go(func() error {
		var err error
		remoteSnap, err = remote.Build(gCtx, recursive)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return localSnap, remoteSnap, nil
}
