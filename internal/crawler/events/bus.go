package events

import (
	"sync"

	"github.com/jonesrussell/goleads/internal/logger"
)

// Bus distributes session events to subscribed handlers. Progress delivered
// through the bus is clamped monotonically non-decreasing for the current
// session; Reset starts a new session's progress from zero.
type Bus struct {
	mu          sync.RWMutex
	handlers    []Handler
	logger      logger.Interface
	lastPercent int
}

// NewBus creates a new event bus.
func NewBus(log logger.Interface) *Bus {
	return &Bus{
		handlers: make([]Handler, 0),
		logger:   log,
	}
}

// Subscribe adds a handler to the bus.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Reset clears the monotonic progress clamp for a new session.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastPercent = 0
}

// PublishStatus sends a status line to all handlers.
func (b *Bus) PublishStatus(msg string) {
	for _, h := range b.snapshot() {
		if err := h.HandleStatus(msg); err != nil {
			b.logger.Error("failed to handle status event", "error", err)
		}
	}
}

// PublishProgress sends a progress percentage to all handlers. Values lower
// than the session's high-water mark are dropped so observers always see a
// non-decreasing sequence.
func (b *Bus) PublishProgress(percent int) {
	b.mu.Lock()
	if percent < b.lastPercent {
		b.mu.Unlock()
		return
	}
	b.lastPercent = percent
	b.mu.Unlock()

	for _, h := range b.snapshot() {
		if err := h.HandleProgress(percent); err != nil {
			b.logger.Error("failed to handle progress event", "error", err)
		}
	}
}

// PublishRecord sends a per-record outcome to all handlers.
func (b *Bus) PublishRecord(outcome RecordOutcome, name string) {
	for _, h := range b.snapshot() {
		if err := h.HandleRecord(outcome, name); err != nil {
			b.logger.Error("failed to handle record event", "error", err)
		}
	}
}

// PublishDone sends the end-of-session summary to all handlers.
func (b *Bus) PublishDone(summary Summary) {
	for _, h := range b.snapshot() {
		if err := h.HandleDone(summary); err != nil {
			b.logger.Error("failed to handle done event", "error", err)
		}
	}
}

// HandlerCount returns the number of registered handlers.
func (b *Bus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// snapshot copies the handler list under read lock so publishing never holds
// the lock during handler execution.
func (b *Bus) snapshot() []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	return handlers
}
