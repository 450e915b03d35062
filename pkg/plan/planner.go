// Package plan derives a reconciliation plan from a matched pair of
// snapshots and the session's sync options.
package plan

import (
	"fmt"
	"sort"
	"time"

	"github.com/rajivm1991/DroidDock/pkg/match"
	"github.com/rajivm1991/DroidDock/pkg/models"
)

// modTimeWindow is the tolerance when comparing modification times.
// Device clocks and FAT-style filesystems only guarantee second
// resolution, so timestamps within the window count as equal.
const modTimeWindow = time.Second

// Plan turns a MatchSet into an ordered SyncPreview. Actions are emitted
// in Copy, Update, Rename, Delete, Skip batches, ascending path within
// each batch. DeleteMissing is forcibly cleared for both-ways syncs; a
// both-ways plan never contains a Delete action.
func Plan(ms *match.MatchSet, opts models.SyncOptions) *models.SyncPreview {
	// Planner-enforced invariant, not caller courtesy: a bidirectional
	// sync must never delete.
	if opts.Direction == models.BothWays {
		opts.DeleteMissing = false
	}

	var actions []models.SyncAction

	for _, pair := range ms.Paired {
		if pair.Local.IsDir || pair.Remote.IsDir {
			continue
		}
		if action, ok := planPaired(pair, opts); ok {
			actions = append(actions, action)
		}
	}

	for _, rename := range ms.Renames {
		actions = append(actions, planRename(rename, opts))
	}

	for _, rec := range ms.LocalOnly {
		if rec.IsDir {
			continue
		}
		actions = append(actions, planOneSided(rec, models.OriginLocal, opts))
	}

	for _, rec := range ms.RemoteOnly {
		if rec.IsDir {
			continue
		}
		actions = append(actions, planOneSided(rec, models.OriginRemote, opts))
	}

	return assemble(actions)
}

// planPaired handles an entry present on both sides. In-sync pairs emit
// a Skip for one-directional syncs and nothing at all for both-ways,
// so a converged both-ways plan is empty.
func planPaired(pair match.Pair, opts models.SyncOptions) (models.SyncAction, bool) {
	local, remote := pair.Local, pair.Remote

	if local.Size == remote.Size && timesEqual(local.ModTime, remote.ModTime) {
		if opts.Direction == models.BothWays {
			return models.SyncAction{}, false
		}
		return models.SyncAction{
			FilePath:  pair.Path,
			Type:      models.ActionSkip,
			Direction: opts.Direction,
			Size:      local.Size,
			Reason:    "already in sync",
		}, true
	}

	switch opts.Direction {
	case models.LocalToRemote:
		return models.SyncAction{
			FilePath:  pair.Path,
			Type:      models.ActionUpdate,
			Direction: models.LocalToRemote,
			Size:      local.Size,
			Reason:    diffReason(local, remote),
		}, true

	case models.RemoteToLocal:
		return models.SyncAction{
			FilePath:  pair.Path,
			Type:      models.ActionUpdate,
			Direction: models.RemoteToLocal,
			Size:      remote.Size,
			Reason:    diffReason(local, remote),
		}, true

	default: // BothWays: newer wins
		if remote.ModTime.After(local.ModTime.Add(modTimeWindow)) {
			return models.SyncAction{
				FilePath:  pair.Path,
				Type:      models.ActionUpdate,
				Direction: models.RemoteToLocal,
				Size:      remote.Size,
				Reason:    "device copy is newer",
			}, true
		}
		if local.ModTime.After(remote.ModTime.Add(modTimeWindow)) {
			return models.SyncAction{
				FilePath:  pair.Path,
				Type:      models.ActionUpdate,
				Direction: models.LocalToRemote,
				Size:      local.Size,
				Reason:    "local copy is newer",
			}, true
		}
		// Timestamps match within the window but the content differs;
		// the local directory is treated as the primary.
		return models.SyncAction{
			FilePath:  pair.Path,
			Type:      models.ActionUpdate,
			Direction: models.LocalToRemote,
			Size:      local.Size,
			Reason:    "sizes differ, local side preferred",
		}, true
	}
}

// planRename emits a single Rename action for a content match across
// different paths; a rename on the destination side is cheaper than a
// delete plus a full copy.
func planRename(rename match.Rename, opts models.SyncOptions) models.SyncAction {
	direction := opts.Direction
	if direction == models.BothWays {
		// Newer name wins; ties keep the local name
		if rename.Remote.ModTime.After(rename.Local.ModTime.Add(modTimeWindow)) {
			direction = models.RemoteToLocal
		} else {
			direction = models.LocalToRemote
		}
	}

	if direction == models.LocalToRemote {
		// The device copy moves to the local name
		return models.SyncAction{
			FilePath:   rename.LocalPath,
			Type:       models.ActionRename,
			Direction:  models.LocalToRemote,
			Size:       rename.Remote.Size,
			Reason:     fmt.Sprintf("same content as %s, renamed on device", rename.RemotePath),
			RenameFrom: rename.RemotePath,
		}
	}

	// The local copy moves to the device name
	return models.SyncAction{
		FilePath:   rename.RemotePath,
		Type:       models.ActionRename,
		Direction:  models.RemoteToLocal,
		Size:       rename.Local.Size,
		Reason:     fmt.Sprintf("same content as %s, renamed locally", rename.LocalPath),
		RenameFrom: rename.LocalPath,
	}
}

// planOneSided handles an entry present on only one side
func planOneSided(rec models.FileRecord, side models.Origin, opts models.SyncOptions) models.SyncAction {
	if side == models.OriginLocal {
		switch opts.Direction {
		case models.LocalToRemote:
			return models.SyncAction{
				FilePath:  rec.RelativePath,
				Type:      models.ActionCopy,
				Direction: models.LocalToRemote,
				Size:      rec.Size,
				Reason:    "missing on device",
			}
		case models.RemoteToLocal:
			if opts.DeleteMissing {
				return models.SyncAction{
					FilePath:  rec.RelativePath,
					Type:      models.ActionDelete,
					Direction: models.RemoteToLocal,
					Size:      rec.Size,
					Reason:    "missing on device source, delete enabled",
				}
			}
			return models.SyncAction{
				FilePath:  rec.RelativePath,
				Type:      models.ActionSkip,
				Direction: models.RemoteToLocal,
				Size:      rec.Size,
				Reason:    "missing on device source, delete disabled",
			}
		default: // BothWays never deletes
			return models.SyncAction{
				FilePath:  rec.RelativePath,
				Type:      models.ActionCopy,
				Direction: models.LocalToRemote,
				Size:      rec.Size,
				Reason:    "only in local directory",
			}
		}
	}

	switch opts.Direction {
	case models.RemoteToLocal:
		return models.SyncAction{
			FilePath:  rec.RelativePath,
			Type:      models.ActionCopy,
			Direction: models.RemoteToLocal,
			Size:      rec.Size,
			Reason:    "missing locally",
		}
	case models.LocalToRemote:
		if opts.DeleteMissing {
			return models.SyncAction{
				FilePath:  rec.RelativePath,
				Type:      models.ActionDelete,
				Direction: models.LocalToRemote,
				Size:      rec.Size,
				Reason:    "missing on local source, delete enabled",
			}
		}
		return models.SyncAction{
			FilePath:  rec.RelativePath,
			Type:      models.ActionSkip,
			Direction: models.LocalToRemote,
			Size:      rec.Size,
			Reason:    "missing on local source, delete disabled",
		}
	default:
		return models.SyncAction{
			FilePath:  rec.RelativePath,
			Type:      models.ActionCopy,
			Direction: models.RemoteToLocal,
			Size:      rec.Size,
			Reason:    "only on device",
		}
	}
}

func diffReason(local, remote models.FileRecord) string {
	if local.Size != remote.Size {
		return fmt.Sprintf("sizes differ (%d vs %d bytes)", local.Size, remote.Size)
	}
	return "modification times differ"
}

func timesEqual(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= modTimeWindow
}

// batchOrder fixes the execution order of action types; callers rely
// on this batching for progress math
var batchOrder = map[models.ActionType]int{
	models.ActionCopy:   0,
	models.ActionUpdate: 1,
	models.ActionRename: 2,
	models.ActionDelete: 3,
	models.ActionSkip:   4,
}

// assemble orders the actions and computes the aggregates
func assemble(actions []models.SyncAction) *models.SyncPreview {
	sort.SliceStable(actions, func(i, j int) bool {
		if batchOrder[actions[i].Type] != batchOrder[actions[j].Type] {
			return batchOrder[actions[i].Type] < batchOrder[actions[j].Type]
		}
		return actions[i].FilePath < actions[j].FilePath
	})

	preview := &models.SyncPreview{Actions: actions}
	for _, action := range actions {
		switch action.Type {
		case models.ActionCopy:
			preview.CopyCount++
			preview.TotalTransferBytes += action.Size
		case models.ActionUpdate:
			preview.UpdateCount++
			preview.TotalTransferBytes += action.Size
		case models.ActionDelete:
			preview.DeleteCount++
		case models.ActionSkip:
			preview.SkipCount++
		case models.ActionRename:
			preview.RenameCount++
		}
	}

	return preview
}
