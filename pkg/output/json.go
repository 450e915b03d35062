package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct{}

// JSONActionData represents a planned action in JSON output
type JSONActionData struct {
	Path       string `json:"path"`
	Type       string `json:"type"`
	Direction  string `json:"direction,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Reason     string `json:"reason,omitempty"`
	RenameFrom string `json:"rename_from,omitempty"`
}

// JSONPreviewData represents the full plan in JSON output
type JSONPreviewData struct {
	Generated          string           `json:"generated"`
	Actions            []JSONActionData `json:"actions"`
	CopyCount          int              `json:"copy_count"`
	UpdateCount        int              `json:"update_count"`
	RenameCount        int              `json:"rename_count"`
	DeleteCount        int              `json:"delete_count"`
	SkipCount          int              `json:"skip_count"`
	TotalTransferBytes int64            `json:"total_transfer_bytes"`
	InSync             bool             `json:"in_sync"`
}

// JSONResultData represents the sync outcome in JSON output
type JSONResultData struct {
	Generated    string   `json:"generated"`
	Status       string   `json:"status"`
	SuccessCount int      `json:"success_count"`
	SkipCount    int      `json:"skip_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Preview writes the planned actions as a single JSON document
func (f *JSONFormatter) Preview(writer io.Writer, preview *models.SyncPreview) error {
	actions := make([]JSONActionData, 0, len(preview.Actions))
	for _, action := range preview.Actions {
		actions = append(actions, JSONActionData{
			Path:       action.FilePath,
			Type:       string(action.Type),
			Direction:  string(action.Direction),
			Size:       action.Size,
			Reason:     action.Reason,
			RenameFrom: action.RenameFrom,
		})
	}

	return encode(writer, JSONPreviewData{
		Generated:          time.Now().Format(time.RFC3339),
		Actions:            actions,
		CopyCount:          preview.CopyCount,
		UpdateCount:        preview.UpdateCount,
		RenameCount:        preview.RenameCount,
		DeleteCount:        preview.DeleteCount,
		SkipCount:          preview.SkipCount,
		TotalTransferBytes: preview.TotalTransferBytes,
		InSync:             preview.InSync(),
	})
}

// Result writes the sync outcome as a single JSON document
func (f *JSONFormatter) Result(writer io.Writer, result *models.SyncResult) error {
	return encode(writer, JSONResultData{
		Generated:    time.Now().Format(time.RFC3339),
		Status:       string(result.Status()),
		SuccessCount: result.SuccessCount,
		SkipCount:    result.SkipCount,
		ErrorCount:   result.ErrorCount,
		Errors:       result.Errors,
	})
}

// Error reports a fatal error as a JSON document
func (f *JSONFormatter) Error(writer io.Writer, err error) error {
	return encode(writer, map[string]string{
		"error": err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func encode(writer io.Writer, value any) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
