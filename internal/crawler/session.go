package crawler

import (
	"fmt"
	"sync"

	"github.com/jonesrussell/goleads/internal/query"
)

// Mode selects the traversal shape of a session.
type Mode string

const (
	// ModeSequential visits a collected link list one target at a time.
	ModeSequential Mode = "sequential"
	// ModeSnapshot extracts an already-rendered listing page in bulk.
	ModeSnapshot Mode = "snapshot"
)

// Phase is the lifecycle phase of a session.
type Phase int

const (
	// PhaseIdle means no crawl is in flight.
	PhaseIdle Phase = iota
	// PhaseLinksCollected means Sequential Mode targets are ready.
	PhaseLinksCollected
	// PhaseScraping means extraction cycles are running.
	PhaseScraping
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLinksCollected:
		return "links-collected"
	case PhaseScraping:
		return "scraping"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Session is the explicit, owned state of one crawl: its targets, cursor
// index, cap, and running flag. It is owned by the orchestration core;
// observers receive events and never mutate it. Invalid transitions return
// an error and leave the state unchanged.
type Session struct {
	mu      sync.RWMutex
	mode    Mode
	query   query.Query
	targets []string
	index   int
	cap     int
	phase   Phase
	running bool
	stopped bool
}

// NewSession creates an idle session for one query. limit bounds how many
// records the session will process; zero or negative means unbounded.
func NewSession(mode Mode, q query.Query, limit int) *Session {
	return &Session{
		mode:  mode,
		query: q,
		cap:   limit,
		phase: PhaseIdle,
	}
}

// Mode returns the session's traversal mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Query returns the session's query.
func (s *Session) Query() query.Query {
	return s.query
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Running reports whether the session is actively scraping and has not been
// stopped.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Stopped reports whether the session was ended by user cancellation.
func (s *Session) Stopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopped
}

// CollectTargets stores the ordered target list gathered by link discovery.
// Sequential Mode only: Idle (or re-collection before scraping) moves to
// LinksCollected. Rejects an empty list and rejects collection mid-scrape.
func (s *Session) CollectTargets(targets []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeSequential {
		return fmt.Errorf("%w: %s sessions have no target list", ErrInvalidTransition, s.mode)
	}
	if s.phase == PhaseScraping {
		return ErrAlreadyRunning
	}
	if len(targets) == 0 {
		return ErrNoTargets
	}

	s.targets = append([]string(nil), targets...)
	s.index = 0
	s.phase = PhaseLinksCollected
	return nil
}

// BeginScrape transitions the session into Scraping. Sequential Mode
// requires collected targets; Snapshot Mode starts from Idle.
func (s *Session) BeginScrape() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseScraping {
		return ErrAlreadyRunning
	}
	if s.mode == ModeSequential {
		if s.phase != PhaseLinksCollected || len(s.targets) == 0 {
			return ErrNoTargets
		}
	}

	s.index = 0
	s.running = true
	s.stopped = false
	s.phase = PhaseScraping
	return nil
}

// Stop requests cancellation. Advisory: work already dispatched completes;
// the next advance check observes the cleared flag and ends the session.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.running = false
		s.stopped = true
	}
}

// Finish resets the session to Idle after completion, stop, or cap.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.phase = PhaseIdle
}

// Targets returns the collected target list.
func (s *Session) Targets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.targets...)
}

// Effective returns how many items this session will process at most:
// min(len(targets), cap) in Sequential Mode. Snapshot Mode computes its
// bound from the batch size instead.
func (s *Session) Effective() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.targets)
	if s.cap > 0 && s.cap < n {
		return s.cap
	}
	return n
}

// Cap returns the session's record cap (zero means unbounded).
func (s *Session) Cap() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cap
}

// Advance increments the cursor index and returns the new value.
func (s *Session) Advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index++
	return s.index
}

// Index returns the cursor position.
func (s *Session) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}
