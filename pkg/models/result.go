package models

// SyncProgress is a transient progress event emitted during execution.
// Events may be coalesced or dropped for display purposes; the final
// SyncResult is always delivered.
type SyncProgress struct {
	// CurrentFile is the relative path of the action just processed
	CurrentFile string

	// CompletedCount and CompletedBytes are monotonically non-decreasing
	CompletedCount int
	TotalCount     int
	CompletedBytes int64
	TotalBytes     int64
}

// SyncResult summarizes one execution, including partial failures.
// A positive ErrorCount alongside a positive SuccessCount means the sync
// partially succeeded; callers must not treat a result as all-or-nothing.
type SyncResult struct {
	SuccessCount int
	SkipCount    int
	ErrorCount   int

	// Errors holds one formatted message per failed action
	Errors []string
}

// SyncStatus represents the overall outcome of an execution
type SyncStatus string

const (
	// StatusSuccess indicates all actions completed
	StatusSuccess SyncStatus = "success"
	// StatusPartial indicates some actions failed
	StatusPartial SyncStatus = "partial"
	// StatusFailed indicates every attempted action failed
	StatusFailed SyncStatus = "failed"
)

// Status derives the overall outcome from the counters
func (r *SyncResult) Status() SyncStatus {
	switch {
	case r.ErrorCount == 0:
		return StatusSuccess
	case r.SuccessCount > 0 || r.SkipCount > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// ExitCode returns the appropriate process exit code for the result
func (r *SyncResult) ExitCode() int {
	switch r.Status() {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	default:
		return 2
	}
}
