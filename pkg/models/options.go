package models

// Direction defines which way files flow during a sync
type Direction string

const (
	// LocalToRemote pushes local changes to the device
	LocalToRemote Direction = "local-to-remote"
	// RemoteToLocal pulls device changes to the local directory
	RemoteToLocal Direction = "remote-to-local"
	// BothWays syncs in both directions using the newer-wins heuristic
	BothWays Direction = "both"
)

// MatchMode defines how entries are paired across the two snapshots
type MatchMode string

const (
	// MatchByPath pairs entries by relative path only
	MatchByPath MatchMode = "path"
	// MatchByContent additionally pairs unmatched entries by content digest,
	// enabling rename detection. Slower: every file on both sides is hashed.
	MatchByContent MatchMode = "content"
)

// SyncOptions is the complete configuration surface of one sync session.
// It is constructed once per user-initiated session and treated as
// immutable by the engine.
type SyncOptions struct {
	// LocalPath is the local sync root
	LocalPath string

	// DevicePath is the device-resident sync root
	DevicePath string

	// Direction selects the sync policy
	Direction Direction

	// Recursive descends into subdirectories; when false only the
	// immediate children of each root are considered
	Recursive bool

	// DeleteMissing removes entries on the destination side that are
	// absent from the source side. Honored only for one-directional
	// syncs; the planner clears it when Direction is BothWays.
	DeleteMissing bool

	// MatchMode selects path or content matching
	MatchMode MatchMode
}

// Validate checks if the options are valid. It is called before any I/O.
func (o *SyncOptions) Validate() error {
	if o.LocalPath == "" {
		return &ValidationError{Field: "LocalPath", Message: "local path is required"}
	}
	if o.DevicePath == "" {
		return &ValidationError{Field: "DevicePath", Message: "device path is required"}
	}
	switch o.Direction {
	case LocalToRemote, RemoteToLocal, BothWays:
	default:
		return &ValidationError{Field: "Direction", Message: "must be local-to-remote, remote-to-local or both"}
	}
	switch o.MatchMode {
	case MatchByPath, MatchByContent:
	default:
		return &ValidationError{Field: "MatchMode", Message: "must be path or content"}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
