package events

import (
	"github.com/jonesrussell/goleads/internal/logger"
)

// LogHandler is the default Handler: it writes every session event to the
// application log.
type LogHandler struct {
	logger logger.Interface
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(log logger.Interface) Handler {
	return &LogHandler{logger: log.WithComponent("crawler")}
}

// HandleStatus logs the status line.
func (h *LogHandler) HandleStatus(msg string) error {
	h.logger.Info(msg)
	return nil
}

// HandleProgress logs the progress percentage.
func (h *LogHandler) HandleProgress(percent int) error {
	h.logger.Debug("progress", "percent", percent)
	return nil
}

// HandleRecord logs one record outcome. Write failures log at error level so
// lost records are never mistaken for intentional duplicate skips.
func (h *LogHandler) HandleRecord(outcome RecordOutcome, name string) error {
	switch outcome {
	case OutcomeFailed:
		h.logger.Error("record lost to store write failure", "name", name)
	case OutcomeDuplicate:
		h.logger.Debug("duplicate skipped", "name", name)
	case OutcomeDiscarded:
		h.logger.Debug("nameless record discarded")
	default:
		h.logger.Debug("record saved", "name", name)
	}
	return nil
}

// HandleDone logs the session summary.
func (h *LogHandler) HandleDone(summary Summary) error {
	h.logger.Info("session finished",
		"processed", summary.Processed,
		"saved", summary.Saved,
		"duplicates", summary.Duplicates,
		"failed", summary.Failed,
		"render_errors", summary.RenderErrors,
		"stopped", summary.Stopped,
	)
	return nil
}
