package crawler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goleads/internal/crawler/events"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/extractor"
	"github.com/jonesrussell/goleads/internal/logger"
	"github.com/jonesrussell/goleads/internal/renderer/renderertest"
)

// fakeStore records every Insert. insertFn scripts the outcome per record
// name; unscripted inserts succeed.
type fakeStore struct {
	mu       sync.Mutex
	inserted []string
	insertFn func(name string) (bool, error)
}

func (s *fakeStore) Insert(_ context.Context, _ string, b *domain.Business) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertFn != nil {
		ok, err := s.insertFn(b.Name)
		if ok {
			s.inserted = append(s.inserted, b.Name)
		}
		return ok, err
	}
	s.inserted = append(s.inserted, b.Name)
	return true, nil
}

func (s *fakeStore) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inserted...)
}

// sessionRecorder captures every event the bus delivers during a run.
type sessionRecorder struct {
	mu        sync.Mutex
	statuses  []string
	percents  []int
	outcomes  []events.RecordOutcome
	summaries []events.Summary
}

func (r *sessionRecorder) HandleStatus(msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, msg)
	return nil
}

func (r *sessionRecorder) HandleProgress(percent int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.percents = append(r.percents, percent)
	return nil
}

func (r *sessionRecorder) HandleRecord(outcome events.RecordOutcome, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func (r *sessionRecorder) HandleDone(summary events.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
	return nil
}

func (r *sessionRecorder) progress() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.percents...)
}

func (r *sessionRecorder) statusLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statuses...)
}

func (r *sessionRecorder) summary(t *testing.T) events.Summary {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.summaries, 1, "expected exactly one done event")
	return r.summaries[0]
}

// place builds one scripted ExtractPlace result.
func place(name string) extractor.RawPlace {
	return extractor.RawPlace{
		Name:    name,
		Address: name + " Street",
		Phone:   "123",
	}
}

type cursorFixture struct {
	cursor   *Cursor
	session  *Session
	fake     *renderertest.Fake
	store    *fakeStore
	recorder *sessionRecorder
}

func newCursorFixture(t *testing.T, targets []string, limit int) *cursorFixture {
	t.Helper()

	sess := NewSession(ModeSequential, testQuery(t), limit)
	require.NoError(t, sess.CollectTargets(targets))

	fake := &renderertest.Fake{}
	store := &fakeStore{}
	recorder := &sessionRecorder{}
	log := logger.NewNoOp()
	bus := events.NewBus(log)
	bus.Subscribe(recorder)

	cursor := NewCursor(sess, "cafes_pune", fake, store, bus, NewPacer(Pacing{}), log)
	return &cursorFixture{
		cursor:   cursor,
		session:  sess,
		fake:     fake,
		store:    store,
		recorder: recorder,
	}
}

func TestCursor_Run(t *testing.T) {
	t.Parallel()

	t.Run("cap bounds the cycles and progress reflects the bound", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a", "url-b", "url-c"}, 2)
		f.fake.EvalResults = []any{place("A"), place("B")}

		require.NoError(t, f.cursor.Run(context.Background()))

		assert.Equal(t, []string{"url-a", "url-b"}, f.fake.Loads())
		assert.Equal(t, []string{"A", "B"}, f.store.names())
		assert.Equal(t, []int{50, 100}, f.recorder.progress())

		summary := f.recorder.summary(t)
		assert.EqualValues(t, 2, summary.Processed)
		assert.EqualValues(t, 2, summary.Saved)
		assert.False(t, summary.Stopped)
		assert.Equal(t, PhaseIdle, f.session.Phase())
	})

	t.Run("targets run strictly in collection order", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-1", "url-2", "url-3"}, 0)
		f.fake.EvalResults = []any{place("one"), place("two"), place("three")}

		require.NoError(t, f.cursor.Run(context.Background()))

		assert.Equal(t, []string{"url-1", "url-2", "url-3"}, f.fake.Loads())
		assert.Equal(t, []string{"one", "two", "three"}, f.store.names())
		assert.Equal(t, []int{33, 66, 100}, f.recorder.progress())
	})

	t.Run("stop mid-run skips the remaining targets", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a", "url-b", "url-c"}, 0)
		f.fake.EvalResults = []any{place("A"), place("B")}
		f.fake.OnLoad = func(url string) {
			if url == "url-b" {
				f.cursor.Stop()
			}
		}

		require.NoError(t, f.cursor.Run(context.Background()))

		// The in-flight target finishes; the next is never loaded.
		assert.Equal(t, []string{"url-a", "url-b"}, f.fake.Loads())
		assert.Equal(t, []string{"A", "B"}, f.store.names())
		assert.Contains(t, f.recorder.statusLines(), "Scraping stopped by user.")
		assert.NotContains(t, f.recorder.statusLines(), "Scraping finished.")
		assert.True(t, f.recorder.summary(t).Stopped)
	})

	t.Run("context cancellation ends the run before the next target", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a", "url-b", "url-c"}, 0)
		f.fake.EvalResults = []any{place("A")}

		ctx, cancel := context.WithCancel(context.Background())
		f.fake.OnLoad = func(url string) {
			if url == "url-a" {
				cancel()
			}
		}

		require.NoError(t, f.cursor.Run(ctx))
		assert.Equal(t, []string{"url-a"}, f.fake.Loads())
		assert.True(t, f.recorder.summary(t).Stopped)
	})

	t.Run("load failure skips the target and the run continues", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a", "url-b", "url-c"}, 0)
		f.fake.LoadErr = map[string]error{"url-b": errors.New("net::ERR_TIMED_OUT")}
		f.fake.EvalResults = []any{place("A"), place("C")}

		require.NoError(t, f.cursor.Run(context.Background()))

		assert.Equal(t, []string{"A", "C"}, f.store.names())
		assert.Equal(t, []int{33, 66, 100}, f.recorder.progress())

		summary := f.recorder.summary(t)
		assert.EqualValues(t, 3, summary.Processed)
		assert.EqualValues(t, 2, summary.Saved)
		assert.EqualValues(t, 1, summary.RenderErrors)
		assert.EqualValues(t, 3, f.cursor.Metrics().GetProcessedCount())
		assert.EqualValues(t, 2, f.cursor.Metrics().GetSavedCount())
	})

	t.Run("duplicates and write failures are reported distinctly", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a", "url-b", "url-c"}, 0)
		f.fake.EvalResults = []any{place("A"), place("B"), place("C")}
		f.store.insertFn = func(name string) (bool, error) {
			switch name {
			case "B":
				return false, nil
			case "C":
				return false, errors.New("disk I/O error")
			default:
				return true, nil
			}
		}

		require.NoError(t, f.cursor.Run(context.Background()))

		summary := f.recorder.summary(t)
		assert.EqualValues(t, 1, summary.Saved)
		assert.EqualValues(t, 1, summary.Duplicates)
		assert.EqualValues(t, 1, summary.Failed)
		assert.EqualValues(t, 1, f.cursor.Metrics().GetDuplicateCount())
		assert.EqualValues(t, 1, f.cursor.Metrics().GetFailedCount())
		assert.Contains(t, f.recorder.statusLines(), "Skipped duplicate: B")
		assert.Contains(t, f.recorder.statusLines(), "Write failed, record lost: C")
	})

	t.Run("nameless extraction is discarded before the store", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a", "url-b"}, 0)
		f.fake.EvalResults = []any{extractor.RawPlace{Address: "somewhere"}, place("B")}

		require.NoError(t, f.cursor.Run(context.Background()))

		assert.Equal(t, []string{"B"}, f.store.names())
		assert.Contains(t, f.recorder.outcomes, events.OutcomeDiscarded)
	})

	t.Run("refuses to run without collected targets", func(t *testing.T) {
		t.Parallel()
		sess := NewSession(ModeSequential, testQuery(t), 0)
		log := logger.NewNoOp()
		cursor := NewCursor(sess, "cafes_pune", &renderertest.Fake{}, &fakeStore{}, events.NewBus(log), NewPacer(Pacing{}), log)

		assert.ErrorIs(t, cursor.Run(context.Background()), ErrNoTargets)
	})

	t.Run("signals done exactly once", func(t *testing.T) {
		t.Parallel()
		f := newCursorFixture(t, []string{"url-a"}, 0)
		f.fake.EvalResults = []any{place("A")}

		require.NoError(t, f.cursor.Run(context.Background()))

		select {
		case <-f.cursor.Done():
		default:
			t.Fatal("done channel not closed after run")
		}
	})
}

// TestCursor_CoordinatorGuardedRun mirrors how the crawl commands run a
// session: acquire it from the coordinator, run the cursor, release it.
func TestCursor_CoordinatorGuardedRun(t *testing.T) {
	t.Parallel()

	f := newCursorFixture(t, []string{"url-a"}, 0)
	f.fake.EvalResults = []any{place("A")}

	coord := NewCoordinator()
	require.NoError(t, coord.Acquire(f.session))

	// A second session in the same mode is rejected while the first holds it.
	other := NewSession(ModeSequential, testQuery(t), 0)
	assert.ErrorIs(t, coord.Acquire(other), ErrAlreadyRunning)

	require.NoError(t, f.cursor.Run(context.Background()))
	coord.Release(f.session)

	// Release frees the mode for the next run.
	require.NoError(t, coord.Acquire(other))
	coord.Release(other)
}
