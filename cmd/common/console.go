package common

import (
	"fmt"
	"os"

	"github.com/jonesrussell/goleads/internal/crawler/events"
)

// PrintErrorf prints an error message to stderr with formatting.
func PrintErrorf(format string, args ...any) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", args...)
	if err != nil {
		return
	}
}

// ConsoleHandler streams session events to stdout for interactive runs.
// Status lines print as-is; progress prints on its own line.
type ConsoleHandler struct{}

var _ events.Handler = (*ConsoleHandler)(nil)

// HandleStatus prints a status line.
func (ConsoleHandler) HandleStatus(msg string) error {
	_, err := fmt.Println(msg)
	return err
}

// HandleProgress prints a progress percentage.
func (ConsoleHandler) HandleProgress(percent int) error {
	_, err := fmt.Printf("Progress: %d%%\n", percent)
	return err
}

// HandleRecord is a no-op; outcomes already surface as status lines.
func (ConsoleHandler) HandleRecord(events.RecordOutcome, string) error {
	return nil
}

// HandleDone prints the end-of-session summary.
func (ConsoleHandler) HandleDone(summary events.Summary) error {
	_, err := fmt.Printf(
		"Done: %d processed, %d saved, %d duplicates, %d failed.\n",
		summary.Processed, summary.Saved, summary.Duplicates, summary.Failed,
	)
	return err
}
