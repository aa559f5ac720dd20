package crawler

import (
	"sync"
	"time"

	"github.com/jonesrussell/goleads/internal/crawler/events"
)

// Metrics tracks per-session counters. Duplicates (intentional skips) and
// failures (records lost to store errors) are counted separately.
type Metrics struct {
	mu           sync.RWMutex
	processed    int64
	saved        int64
	duplicates   int64
	failed       int64
	renderErrors int64
	startTime    time.Time
	lastRecord   time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// IncrementProcessed counts one handled target or batch item.
func (m *Metrics) IncrementProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed++
	m.lastRecord = time.Now()
}

// IncrementSaved counts one persisted record.
func (m *Metrics) IncrementSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
}

// IncrementDuplicate counts one intentional dedup skip.
func (m *Metrics) IncrementDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicates++
}

// IncrementFailed counts one record lost to a store write failure.
func (m *Metrics) IncrementFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

// IncrementRenderError counts one target skipped on page-load failure.
func (m *Metrics) IncrementRenderError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderErrors++
}

// GetProcessedCount returns the number of handled items.
func (m *Metrics) GetProcessedCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed
}

// GetSavedCount returns the number of persisted records.
func (m *Metrics) GetSavedCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saved
}

// GetDuplicateCount returns the number of dedup skips.
func (m *Metrics) GetDuplicateCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.duplicates
}

// GetFailedCount returns the number of lost records.
func (m *Metrics) GetFailedCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failed
}

// GetProcessingDuration returns time elapsed since tracking started.
func (m *Metrics) GetProcessingDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return time.Since(m.startTime)
}

// Summary snapshots the counters into an end-of-session summary.
func (m *Metrics) Summary(stopped bool) events.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return events.Summary{
		Processed:    m.processed,
		Saved:        m.saved,
		Duplicates:   m.duplicates,
		Failed:       m.failed,
		RenderErrors: m.renderErrors,
		Stopped:      stopped,
	}
}
