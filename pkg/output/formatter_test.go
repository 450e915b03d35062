package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

func samplePreview() *models.SyncPreview {
	return &models.SyncPreview{
		Actions: []models.SyncAction{
			{FilePath: "new.jpg", Type: models.ActionCopy, Direction: models.LocalToRemote, Size: 2048, Reason: "missing on device"},
			{FilePath: "a.txt", Type: models.ActionRename, Direction: models.LocalToRemote, RenameFrom: "b.txt", Reason: "same content as b.txt, renamed on device"},
			{FilePath: "stale.txt", Type: models.ActionSkip, Direction: models.LocalToRemote, Reason: "already in sync"},
		},
		TotalTransferBytes: 2048,
		CopyCount:          1,
		RenameCount:        1,
		SkipCount:          1,
	}
}

// TestHumanPreview tests the human-readable plan listing
func TestHumanPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := NewHumanFormatter().Preview(&buf, samplePreview()); err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"new.jpg", "b.txt => a.txt", "2.0 KiB", "1 copy", "1 rename"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestTruncate tests that long lines are shortened on rune boundaries
// so multi-byte filenames never produce invalid UTF-8
func TestTruncate(t *testing.T) {
	long := strings.Repeat("фото", 60) + ".jpg"
	got := truncate(long, 40)

	if !utf8.ValidString(got) {
		t.Errorf("truncate() produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 40 {
		t.Errorf("rune count = %d, want 40", utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate() = %q, want an ellipsis suffix", got)
	}

	if short := truncate("фото.jpg", 40); short != "фото.jpg" {
		t.Errorf("truncate() shortened a line that fits: %q", short)
	}
}

// TestHumanPreviewInSync tests the converged case
func TestHumanPreviewInSync(t *testing.T) {
	var buf bytes.Buffer
	preview := &models.SyncPreview{SkipCount: 2}
	if err := NewHumanFormatter().Preview(&buf, preview); err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if !strings.Contains(buf.String(), "in sync") {
		t.Errorf("output = %q, want an in-sync notice", buf.String())
	}
}

// TestHumanResult tests the outcome summary
func TestHumanResult(t *testing.T) {
	var buf bytes.Buffer
	result := &models.SyncResult{
		SuccessCount: 2,
		ErrorCount:   1,
		Errors:       []string{"copy b.txt: device write failed"},
	}
	if err := NewHumanFormatter().Result(&buf, result); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Synced:  2", "Errors:  1", "device write failed", "partial"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// TestJSONPreview tests that the JSON plan document decodes cleanly
func TestJSONPreview(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Preview(&buf, samplePreview()); err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	var doc JSONPreviewData
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if len(doc.Actions) != 3 {
		t.Errorf("Actions = %d, want 3", len(doc.Actions))
	}
	if doc.TotalTransferBytes != 2048 {
		t.Errorf("TotalTransferBytes = %d, want 2048", doc.TotalTransferBytes)
	}
	if doc.InSync {
		t.Error("InSync = true, want false")
	}
	if doc.Actions[1].RenameFrom != "b.txt" {
		t.Errorf("Actions[1].RenameFrom = %q, want b.txt", doc.Actions[1].RenameFrom)
	}
}

// TestJSONResult tests the JSON outcome document
func TestJSONResult(t *testing.T) {
	var buf bytes.Buffer
	result := &models.SyncResult{SuccessCount: 3, ErrorCount: 0}
	if err := NewJSONFormatter().Result(&buf, result); err != nil {
		t.Fatalf("Result() error = %v", err)
	}

	var doc JSONResultData
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.Status != "success" || doc.SuccessCount != 3 {
		t.Errorf("doc = %+v, want success/3", doc)
	}
}

// TestFormatBytes tests size formatting
func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// TestForFormat tests formatter selection
func TestForFormat(t *testing.T) {
	if ForFormat("json").Name() != "json" {
		t.Error("ForFormat(json) did not return the JSON formatter")
	}
	if ForFormat("human").Name() != "human" {
		t.Error("ForFormat(human) did not return the human formatter")
	}
	if ForFormat("").Name() != "human" {
		t.Error("ForFormat(\"\") should fall back to human")
	}
}
