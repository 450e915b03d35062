package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rajivm1991/DroidDock/pkg/logging"
	"github.com/rajivm1991/DroidDock/pkg/models"
)

// ErrSyncInProgress is returned when Execute is re-entered while a run
// against the same executor is still active
var ErrSyncInProgress = errors.New("sync already in progress")

// Executor applies a reconciliation plan action by action through the
// injected transfer collaborator. A single action's failure is recorded
// and the run continues; partial-failure tolerance is a hard requirement.
type Executor struct {
	transfer TransferPort
	logger   logging.Logger
	running  atomic.Bool
}

// NewExecutor creates an executor over the given transfer port
func NewExecutor(transfer TransferPort, logger logging.Logger) *Executor {
	return &Executor{
		transfer: transfer,
		logger:   logger,
	}
}

// Execute applies the plan strictly sequentially, in the order given by
// the planner. A progress event is emitted after each action on the
// given channel; sends never block, so a slow consumer only loses
// intermediate events, never the final result. The channel is closed
// on every return, including a busy rejection; a nil channel disables
// progress reporting.
//
// Cancellation stops dispatching after the in-flight action and still
// returns a result reflecting everything completed so far. Only one run
// may be active per executor; concurrent calls get ErrSyncInProgress.
func (e *Executor) Execute(ctx context.Context, preview *models.SyncPreview, progress chan<- models.SyncProgress) (*models.SyncResult, error) {
	if !e.running.CompareAndSwap(false, true) {
		// The channel still belongs to this caller; close it so a
		// consumer ranging over it does not hang on the rejection.
		if progress != nil {
			close(progress)
		}
		return nil, ErrSyncInProgress
	}
	defer e.running.Store(false)

	if progress != nil {
		defer close(progress)
	}

	result := &models.SyncResult{}

	var completedBytes int64
	completedCount := 0

	for _, action := range preview.Actions {
		select {
		case <-ctx.Done():
			if e.logger != nil {
				e.logger.Warn(ctx, "Sync cancelled, returning partial result", logging.Fields{
					"completed": completedCount,
					"total":     len(preview.Actions),
				})
			}
			return result, nil
		default:
		}

		if action.Type == models.ActionSkip {
			result.SkipCount++
		} else if err := e.apply(ctx, action); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %v", action.Type, action.FilePath, err))

			if e.logger != nil {
				e.logger.Error(ctx, "Sync action failed", err, logging.Fields{
					"action": string(action.Type),
					"path":   action.FilePath,
				})
			}
		} else {
			result.SuccessCount++
			if action.Type == models.ActionCopy || action.Type == models.ActionUpdate {
				completedBytes += action.Size
			}
		}

		completedCount++

		if progress != nil {
			select {
			case progress <- models.SyncProgress{
				CurrentFile:    action.FilePath,
				CompletedCount: completedCount,
				TotalCount:     len(preview.Actions),
				CompletedBytes: completedBytes,
				TotalBytes:     preview.TotalTransferBytes,
			}:
			default:
				// Slow consumer; drop the event
			}
		}
	}

	return result, nil
}

// apply dispatches one action to the transfer port
func (e *Executor) apply(ctx context.Context, action models.SyncAction) error {
	switch action.Type {
	case models.ActionCopy, models.ActionUpdate:
		return e.transfer.Copy(ctx, action.FilePath, action.Direction, action.Size)
	case models.ActionDelete:
		return e.transfer.Delete(ctx, action.FilePath, action.Direction)
	case models.ActionRename:
		return e.transfer.Rename(ctx, action.RenameFrom, action.FilePath, action.Direction)
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}
