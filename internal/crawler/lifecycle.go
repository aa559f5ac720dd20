package crawler

import "sync"

// LifecycleManager signals session completion exactly once, however the
// session ended: natural exhaustion, cap reached, or user stop.
type LifecycleManager struct {
	done     chan struct{}
	doneOnce sync.Once
}

// NewLifecycleManager creates a new lifecycle manager.
func NewLifecycleManager() *LifecycleManager {
	return &LifecycleManager{done: make(chan struct{})}
}

// Done returns a channel that is closed when the session completes.
func (lm *LifecycleManager) Done() <-chan struct{} {
	return lm.done
}

// SignalDone closes the done channel. Safe to call multiple times; only the
// first call has effect.
func (lm *LifecycleManager) SignalDone() {
	lm.doneOnce.Do(func() {
		close(lm.done)
	})
}
