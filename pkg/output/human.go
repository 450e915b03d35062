package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

// actionLabels maps action types to their display verbs
var actionLabels = map[models.ActionType]string{
	models.ActionCopy:   "copy",
	models.ActionUpdate: "update",
	models.ActionRename: "rename",
	models.ActionDelete: "delete",
	models.ActionSkip:   "skip",
}

// directionArrows maps directions to their display arrows
var directionArrows = map[models.Direction]string{
	models.LocalToRemote: "->",
	models.RemoteToLocal: "<-",
}

// HumanFormatter formats output in human-readable format
type HumanFormatter struct{}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Preview writes the planned actions as a table followed by a summary
func (f *HumanFormatter) Preview(writer io.Writer, preview *models.SyncPreview) error {
	if preview.InSync() {
		fmt.Fprintf(writer, "Already in sync, nothing to do\n")
		return nil
	}

	width := terminalWidth(writer)

	for _, action := range preview.Actions {
		fmt.Fprintf(writer, "%s\n", truncate(formatAction(action), width))
	}

	fmt.Fprintf(writer, "\n")
	fmt.Fprintf(writer, "Plan: %d copy, %d update, %d rename, %d delete, %d skip\n",
		preview.CopyCount, preview.UpdateCount, preview.RenameCount,
		preview.DeleteCount, preview.SkipCount)
	fmt.Fprintf(writer, "Transfer: %s in %d files\n",
		formatBytes(preview.TotalTransferBytes), preview.TransferCount())

	return nil
}

// Result writes the outcome of a completed sync
func (f *HumanFormatter) Result(writer io.Writer, result *models.SyncResult) error {
	fmt.Fprintf(writer, "\n")
	fmt.Fprintf(writer, "Synced:  %d\n", result.SuccessCount)
	fmt.Fprintf(writer, "Skipped: %d\n", result.SkipCount)
	fmt.Fprintf(writer, "Errors:  %d\n", result.ErrorCount)

	if len(result.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, msg := range result.Errors {
			fmt.Fprintf(writer, "  %s\n", msg)
		}
	}

	fmt.Fprintf(writer, "\nStatus: %s\n", result.Status())
	return nil
}

// Error reports a fatal error
func (f *HumanFormatter) Error(writer io.Writer, err error) error {
	fmt.Fprintf(writer, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// formatAction renders a single planned action as one line
func formatAction(action models.SyncAction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-7s", actionLabels[action.Type])

	if arrow, ok := directionArrows[action.Direction]; ok && action.Type != models.ActionSkip {
		fmt.Fprintf(&b, " %s", arrow)
	} else {
		b.WriteString("   ")
	}

	if action.Type == models.ActionRename {
		fmt.Fprintf(&b, " %s => %s", action.RenameFrom, action.FilePath)
	} else {
		fmt.Fprintf(&b, " %s", action.FilePath)
	}

	if action.Type == models.ActionCopy || action.Type == models.ActionUpdate {
		fmt.Fprintf(&b, " (%s)", formatBytes(action.Size))
	}

	if action.Reason != "" {
		fmt.Fprintf(&b, "  [%s]", action.Reason)
	}

	return b.String()
}

// truncate shortens a line to at most width runes, never splitting a
// multi-byte rune
func truncate(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	return string(runes[:width-3]) + "..."
}

// terminalWidth returns the width of the terminal behind the writer,
// or a generous default when the writer is not a terminal
func terminalWidth(writer io.Writer) int {
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return 200
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
