package output

import (
	"io"

	"github.com/cheggaaa/pb/v3"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

const progressTemplate = `{{string . "file" | printf "%-40.40s"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{speed . }}`

// ShowProgress renders a progress bar from sync updates until the
// channel is closed. It blocks, so callers run it in a goroutine.
func ShowProgress(writer io.Writer, updates <-chan models.SyncProgress) {
	var bar *pb.ProgressBar

	for update := range updates {
		if bar == nil {
			bar = pb.New64(update.TotalBytes)
			bar.SetWriter(writer)
			bar.Set(pb.Bytes, true)
			bar.SetTemplateString(progressTemplate)
			bar.Start()
		}
		bar.Set("file", update.CurrentFile)
		bar.SetCurrent(update.CompletedBytes)
	}

	if bar != nil {
		bar.SetCurrent(bar.Total())
		bar.Finish()
	}
}

// DrainProgress consumes sync updates without rendering anything
// Used in quiet mode and for JSON output
func DrainProgress(updates <-chan models.SyncProgress) {
	for range updates {
	}
}
