// Package events provides the status and progress event surface of a crawl
// session. The crawl core publishes; observers subscribe. Observers never
// mutate the session.
package events

// RecordOutcome classifies what happened to one extracted record. Duplicates
// are intentional skips; failures are records lost to storage errors. The two
// are never conflated in reporting.
type RecordOutcome string

const (
	// OutcomeSaved means the record was persisted.
	OutcomeSaved RecordOutcome = "saved"
	// OutcomeDuplicate means the dedup key was already stored; intentional no-op.
	OutcomeDuplicate RecordOutcome = "duplicate"
	// OutcomeFailed means the store rejected the write; the record is lost.
	OutcomeFailed RecordOutcome = "failed"
	// OutcomeDiscarded means the record lacked a name and never reached the store.
	OutcomeDiscarded RecordOutcome = "discarded"
)

// Summary describes a finished session. Published exactly once per session,
// whatever ended it.
type Summary struct {
	// Processed counts targets or batch items handled, including discards.
	Processed int64
	// Saved counts records persisted.
	Saved int64
	// Duplicates counts intentional dedup skips.
	Duplicates int64
	// Failed counts records lost to store write failures.
	Failed int64
	// RenderErrors counts targets skipped because the page failed to load.
	RenderErrors int64
	// Stopped is true when the session ended by user cancellation.
	Stopped bool
}

// Handler receives session events from the Bus.
type Handler interface {
	// HandleStatus processes a human-readable status line.
	HandleStatus(msg string) error
	// HandleProgress processes a progress percentage in [0, 100].
	HandleProgress(percent int) error
	// HandleRecord processes a per-record outcome.
	HandleRecord(outcome RecordOutcome, name string) error
	// HandleDone processes the end-of-session summary.
	HandleDone(summary Summary) error
}
