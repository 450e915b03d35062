package sync

import (
	"context"
	"fmt"

	"github.com/rajivm1991/DroidDock/pkg/models"
	"github.com/rajivm1991/DroidDock/pkg/ratelimit"
	"github.com/rajivm1991/DroidDock/pkg/storage"
)

// TransferPort moves file bytes between the two sides of a sync session.
// The executor treats every call as independently fallible and never
// assumes atomicity across a run. LocalToRemote operations modify the
// device side, RemoteToLocal operations the local side.
type TransferPort interface {
	// Copy transfers the file at path toward the side given by direction
	Copy(ctx context.Context, path string, direction models.Direction, size int64) error

	// Delete removes the file at path on the side given by direction
	Delete(ctx context.Context, path string, direction models.Direction) error

	// Rename moves a file on the side given by direction
	Rename(ctx context.Context, from, to string, direction models.Direction) error
}

// backendPort implements TransferPort over a pair of storage backends
type backendPort struct {
	local   storage.Backend
	remote  storage.Backend
	limiter *ratelimit.Limiter
}

// PortFromBackends builds a TransferPort from the two storage backends
// of a session. A non-nil limiter throttles copy bandwidth.
func PortFromBackends(local, remote storage.Backend, limiter *ratelimit.Limiter) TransferPort {
	return &backendPort{
		local:   local,
		remote:  remote,
		limiter: limiter,
	}
}

// pick returns (source, destination) for a direction
func (p *backendPort) pick(direction models.Direction) (storage.Backend, storage.Backend) {
	if direction == models.RemoteToLocal {
		return p.remote, p.local
	}
	return p.local, p.remote
}

func (p *backendPort) Copy(ctx context.Context, path string, direction models.Direction, size int64) error {
	src, dst := p.pick(direction)

	reader, err := src.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	defer reader.Close()

	// Source metadata preserves the modification time on the far side,
	// which keeps subsequent previews idempotent
	srcInfo, err := src.Stat(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get source metadata: %w", err)
	}

	limited := ratelimit.NewReadCloser(ctx, reader, p.limiter)

	if err := dst.Write(ctx, path, limited, size, srcInfo); err != nil {
		return fmt.Errorf("failed to write destination: %w", err)
	}

	return nil
}

func (p *backendPort) Delete(ctx context.Context, path string, direction models.Direction) error {
	_, dst := p.pick(direction)
	return dst.Delete(ctx, path)
}

func (p *backendPort) Rename(ctx context.Context, from, to string, direction models.Direction) error {
	_, dst := p.pick(direction)
	return dst.Rename(ctx, from, to)
}
