package crawler

import "sync"

// Coordinator enforces the one-Scraping-session-per-mode rule. Concurrent
// starts in the same mode are rejected explicitly rather than queued.
type Coordinator struct {
	mu     sync.Mutex
	active map[Mode]*Session
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{active: make(map[Mode]*Session)}
}

// Acquire registers sess as the active session for its mode. Returns
// ErrAlreadyRunning when another session in the same mode is still active.
func (c *Coordinator) Acquire(sess *Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.active[sess.Mode()]; ok && current != sess {
		return ErrAlreadyRunning
	}
	c.active[sess.Mode()] = sess
	return nil
}

// Release clears the active slot for the session's mode. Releasing a session
// that is not active is a no-op.
func (c *Coordinator) Release(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.active[sess.Mode()]; ok && current == sess {
		delete(c.active, sess.Mode())
	}
}

// Active returns the active session for a mode, or nil.
func (c *Coordinator) Active(mode Mode) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active[mode]
}
