// Package sync contains the reconciliation engine: it matches two
// directory snapshots, derives a plan and executes it through an
// injected transfer collaborator.
package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/rajivm1991/DroidDock/pkg/logging"
	"github.com/rajivm1991/DroidDock/pkg/match"
	"github.com/rajivm1991/DroidDock/pkg/models"
	"github.com/rajivm1991/DroidDock/pkg/plan"
	"github.com/rajivm1991/DroidDock/pkg/snapshot"
	"github.com/rajivm1991/DroidDock/pkg/storage"
)

// Engine orchestrates a sync session between a local directory and a
// device-resident directory. It reads no ambient state: each call takes
// a complete SyncOptions.
type Engine struct {
	local    storage.Backend
	remote   storage.Backend
	transfer TransferPort
	logger   logging.Logger
	executor *Executor

	// Exclude patterns filter housekeeping entries out of snapshots
	Exclude []string

	// BufferSize for hashing reads in content mode
	BufferSize int
}

// NewEngine creates a sync engine over the given backends and transfer
// collaborator
func NewEngine(local, remote storage.Backend, transfer TransferPort, logger logging.Logger) *Engine {
	return &Engine{
		local:    local,
		remote:   remote,
		transfer: transfer,
		logger:   logger,
		executor: NewExecutor(transfer, logger),
	}
}

// Preview builds both snapshots, matches them and returns the
// reconciliation plan. Read-only and side-effect free; safe to call
// repeatedly, e.g. to refresh before confirming.
func (e *Engine) Preview(ctx context.Context, opts models.SyncOptions) (*models.SyncPreview, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	if e.logger != nil {
		e.logger.Info(ctx, "Building sync preview", logging.Fields{
			"session_id": sessionID,
			"local":      opts.LocalPath,
			"device":     opts.DevicePath,
			"direction":  string(opts.Direction),
			"match_mode": string(opts.MatchMode),
		})
	}

	builderOpts := snapshot.Options{
		HashContent: opts.MatchMode == models.MatchByContent,
		Exclude:     e.Exclude,
		BufferSize:  e.BufferSize,
	}

	localBuilder := snapshot.NewBuilder(e.local, models.OriginLocal, builderOpts)
	remoteBuilder := snapshot.NewBuilder(e.remote, models.OriginRemote, builderOpts)

	localSnap, remoteSnap, err := snapshot.BuildPair(ctx, localBuilder, remoteBuilder, opts.Recursive)
	if err != nil {
		return nil, err
	}

	matchSet := match.Match(localSnap, remoteSnap, opts.MatchMode)
	preview := plan.Plan(matchSet, opts)

	if e.logger != nil {
		e.logger.Info(ctx, "Sync preview ready", logging.Fields{
			"session_id":     sessionID,
			"copies":         preview.CopyCount,
			"updates":        preview.UpdateCount,
			"deletes":        preview.DeleteCount,
			"renames":        preview.RenameCount,
			"skips":          preview.SkipCount,
			"transfer_bytes": preview.TotalTransferBytes,
		})
	}

	return preview, nil
}

// Sync builds a fresh preview and executes it, streaming progress to
// the given channel (closed on completion; nil disables it)
func (e *Engine) Sync(ctx context.Context, opts models.SyncOptions, progress chan<- models.SyncProgress) (*models.SyncResult, error) {
	preview, err := e.Preview(ctx, opts)
	if err != nil {
		if progress != nil {
			close(progress)
		}
		return nil, err
	}

	return e.executor.Execute(ctx, preview, progress)
}

// ExecutePlan applies an already-confirmed preview without rebuilding
// snapshots. Callers that show the plan to a user first should prefer
// Sync, which re-snapshots immediately before execution.
func (e *Engine) ExecutePlan(ctx context.Context, preview *models.SyncPreview, progress chan<- models.SyncProgress) (*models.SyncResult, error) {
	return e.executor.Execute(ctx, preview, progress)
}
