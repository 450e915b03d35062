package models

// ActionType represents what should be done with a file
type ActionType string

const (
	// ActionCopy copies a file that is missing on the destination side
	ActionCopy ActionType = "copy"
	// ActionUpdate overwrites an existing file on the destination side
	ActionUpdate ActionType = "update"
	// ActionDelete removes a file from the destination side
	ActionDelete ActionType = "delete"
	// ActionSkip performs no transfer (already in sync, or delete disabled)
	ActionSkip ActionType = "skip"
	// ActionRename moves a file on the destination side instead of
	// transferring its content (same digest, different path)
	ActionRename ActionType = "rename"
)

// SyncAction is one planned step of a reconciliation plan
type SyncAction struct {
	// FilePath is the relative path the action applies to
	FilePath string

	// Type is the kind of operation
	Type ActionType

	// Direction is the side the operation is directed at. LocalToRemote
	// actions modify the device, RemoteToLocal actions modify the local
	// directory. Never BothWays.
	Direction Direction

	// Size in bytes of the file being acted on
	Size int64

	// Reason is a human-readable justification, always populated
	Reason string

	// RenameFrom is the current path of the file being renamed,
	// populated only for ActionRename
	RenameFrom string
}

// SyncPreview is the ordered reconciliation plan plus aggregate statistics.
// Actions are batched Copy, Update, Rename, Delete, Skip, ascending path
// within each batch; callers may rely on this order for progress math.
type SyncPreview struct {
	Actions []SyncAction

	// TotalTransferBytes is the sum of Size over Copy and Update actions
	TotalTransferBytes int64

	CopyCount   int
	UpdateCount int
	DeleteCount int
	SkipCount   int
	RenameCount int
}

// TransferCount returns the number of actions that require work during
// execution (everything except Skip)
func (p *SyncPreview) TransferCount() int {
	return p.CopyCount + p.UpdateCount + p.DeleteCount + p.RenameCount
}

// InSync reports whether the plan contains no actions beyond Skip
func (p *SyncPreview) InSync() bool {
	return p.TransferCount() == 0
}
