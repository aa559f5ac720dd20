package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/goleads/internal/crawler/events"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/extractor"
	"github.com/jonesrussell/goleads/internal/logger"
	"github.com/jonesrussell/goleads/internal/renderer"
)

// RecordStore is the slice of the storage layer the crawl core writes
// through. Insert must be atomic per record and report a duplicate as
// (false, nil), never as an error.
type RecordStore interface {
	Insert(ctx context.Context, queryID string, b *domain.Business) (bool, error)
}

// Cursor drives a Sequential Mode crawl: it advances through a bounded,
// ordered target list one page at a time, paced between loads, feeding each
// rendered page to the extractor and then the store. Targets are processed
// strictly in collection order and the cursor never moves on before the
// current target's store write has completed.
type Cursor struct {
	session   *Session
	queryID   string
	render    renderer.Renderer
	store     RecordStore
	bus       *events.Bus
	pacer     *Pacer
	metrics   *Metrics
	lifecycle *LifecycleManager
	logger    logger.Interface
}

// NewCursor wires a cursor for one session.
func NewCursor(
	session *Session,
	queryID string,
	render renderer.Renderer,
	store RecordStore,
	bus *events.Bus,
	pacer *Pacer,
	log logger.Interface,
) *Cursor {
	return &Cursor{
		session:   session,
		queryID:   queryID,
		render:    render,
		store:     store,
		bus:       bus,
		pacer:     pacer,
		metrics:   NewMetrics(),
		lifecycle: NewLifecycleManager(),
		logger:    log.WithComponent("cursor"),
	}
}

// Done returns a channel closed when the session completes.
func (c *Cursor) Done() <-chan struct{} {
	return c.lifecycle.Done()
}

// Metrics exposes the session counters for observers.
func (c *Cursor) Metrics() *Metrics {
	return c.metrics
}

// Stop requests cancellation. The in-flight target finishes (its store write
// may still land; the write is idempotent under the dedup key) and the next
// advance check ends the session. The target after the current one is never
// loaded.
func (c *Cursor) Stop() {
	c.session.Stop()
}

// Run executes the crawl to completion. It returns an error only when the
// session cannot start; per-target failures are reported through the event
// bus and skipped. Completion is signaled exactly once, whatever ends the
// run.
func (c *Cursor) Run(ctx context.Context) error {
	if err := c.session.BeginScrape(); err != nil {
		return err
	}
	c.bus.Reset()

	defer func() {
		c.session.Finish()
		c.bus.PublishDone(c.metrics.Summary(c.session.Stopped()))
		c.lifecycle.SignalDone()
	}()

	targets := c.session.Targets()
	effective := c.session.Effective()
	c.bus.PublishStatus(fmt.Sprintf("Scraping %d of %d collected links.", effective, len(targets)))

	for i := range effective {
		if ctx.Err() != nil {
			c.session.Stop()
		}
		if !c.session.Running() {
			c.bus.PublishStatus("Scraping stopped by user.")
			break
		}

		// Minimum inter-load interval; the first load passes immediately.
		if err := c.pacer.NextPage(ctx); err != nil {
			c.session.Stop()
			c.bus.PublishStatus("Scraping stopped by user.")
			break
		}

		c.processTarget(ctx, targets[i])

		c.session.Advance()
		c.bus.PublishProgress((i + 1) * 100 / effective)
	}

	if !c.session.Stopped() {
		c.bus.PublishStatus("Scraping finished.")
	}
	return nil
}

// processTarget loads one target, extracts its fields, and persists the
// record. A load or extraction failure is transient: the target is skipped,
// the session continues.
func (c *Cursor) processTarget(ctx context.Context, url string) {
	defer c.metrics.IncrementProcessed()

	if err := c.render.Load(ctx, url); err != nil {
		c.metrics.IncrementRenderError()
		c.logger.Warn("page failed to load, skipping target", "url", url, "error", err)
		c.bus.PublishStatus(fmt.Sprintf("Page failed to load, skipped: %s", url))
		return
	}

	// Loaded pages keep rendering client-side for a moment.
	if err := c.pacer.Settle(ctx); err != nil {
		return
	}

	place, err := extractor.ExtractPlace(ctx, c.render)
	if err != nil {
		c.metrics.IncrementRenderError()
		c.logger.Warn("extraction failed, skipping target", "url", url, "error", err)
		c.bus.PublishStatus(fmt.Sprintf("Extraction failed, skipped: %s", url))
		return
	}

	record := c.buildRecord(place)
	persistRecord(ctx, c.store, c.queryID, record, c.bus, c.metrics)
}

// buildRecord turns raw place fields into a Business. Maps records take an
// autoincrement surrogate key from storage, so ID stays empty.
func (c *Cursor) buildRecord(place *extractor.RawPlace) *domain.Business {
	q := c.session.Query()
	return &domain.Business{
		Name:      place.Name,
		Address:   orUnavailable(place.Address),
		Phone:     orUnavailable(place.Phone),
		Website:   orUnavailable(place.Website),
		Keyword:   q.Keyword,
		Location:  q.Location,
		ScrapedAt: domain.NewTimestamp(time.Now()),
	}
}

// orUnavailable substitutes the placeholder for fields the page did not expose.
func orUnavailable(s string) string {
	if s == "" {
		return domain.FieldUnavailable
	}
	return s
}

// persistRecord writes one record through the store and reports the outcome.
// Nameless records are discarded before the store; duplicates are intentional
// skips; write failures lose the record but never abort the session.
func persistRecord(
	ctx context.Context,
	store RecordStore,
	queryID string,
	b *domain.Business,
	bus *events.Bus,
	m *Metrics,
) {
	if !b.HasName() {
		bus.PublishRecord(events.OutcomeDiscarded, b.Name)
		bus.PublishStatus("Skipped listing without a name.")
		return
	}

	inserted, err := store.Insert(ctx, queryID, b)
	switch {
	case err != nil:
		m.IncrementFailed()
		bus.PublishRecord(events.OutcomeFailed, b.Name)
		bus.PublishStatus(fmt.Sprintf("Write failed, record lost: %s", b.Name))
	case inserted:
		m.IncrementSaved()
		bus.PublishRecord(events.OutcomeSaved, b.Name)
		bus.PublishStatus("Saved: " + b.Name)
	default:
		m.IncrementDuplicate()
		bus.PublishRecord(events.OutcomeDuplicate, b.Name)
		bus.PublishStatus("Skipped duplicate: " + b.Name)
	}
}
