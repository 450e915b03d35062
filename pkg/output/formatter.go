package output

import (
	"io"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable and JSON formatters
type Formatter interface {
	// Preview writes the planned actions before a sync runs
	Preview(writer io.Writer, preview *models.SyncPreview) error

	// Result writes the outcome of a completed sync
	Result(writer io.Writer, result *models.SyncResult) error

	// Error reports a fatal error
	Error(writer io.Writer, err error) error

	// Name returns the formatter name
	Name() string
}

// ForFormat returns the formatter matching a configured format name
func ForFormat(format string) Formatter {
	if format == "json" {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
