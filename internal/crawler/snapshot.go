package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/goleads/internal/crawler/events"
	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/extractor"
	"github.com/jonesrussell/goleads/internal/logger"
	"github.com/jonesrussell/goleads/internal/renderer"
)

// SnapshotController drives a Snapshot Mode capture: one bulk script
// evaluation against an already-loaded directory page, then a dedup+cap+pace
// pass over the returned batch into the store. It never navigates; the page
// precondition fails fast instead.
type SnapshotController struct {
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

// NewSnapshotController wires a controller for one session.
func NewSnapshotController(
	session *Session,
	queryID string,
	render renderer.Renderer,
	store RecordStore,
	bus *events.Bus,
	pacer *Pacer,
	log logger.Interface,
) *SnapshotController {
	return &SnapshotController{
		session:   session,
		queryID:   queryID,
		render:    render,
		store:     store,
		bus:       bus,
		pacer:     pacer,
		metrics:   NewMetrics(),
		lifecycle: NewLifecycleManager(),
		logger:    log.WithComponent("snapshot"),
	}
}

// Done returns a channel closed when the session completes.
func (sc *SnapshotController) Done() <-chan struct{} {
	return sc.lifecycle.Done()
}

// Metrics exposes the session counters for observers.
func (sc *SnapshotController) Metrics() *Metrics {
	return sc.metrics
}

// Stop requests cancellation. An in-flight script evaluation is not
// interrupted; items of the returned batch that have not been handled yet
// are never processed.
func (sc *SnapshotController) Stop() {
	sc.session.Stop()
}

// Run captures the loaded page. It returns an error when the precondition or
// session start fails; an empty or unreadable batch ends the session early
// with a status line, not an error. Completion is signaled exactly once
// whether the run exhausts the batch, hits the cap, or is cancelled.
func (sc *SnapshotController) Run(ctx context.Context) error {
	loc, err := sc.render.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	if !extractor.IsDirectoryURL(loc) {
		return fmt.Errorf("%w: %s", ErrInvalidPage, loc)
	}

	if beginErr := sc.session.BeginScrape(); beginErr != nil {
		return beginErr
	}
	sc.bus.Reset()

	defer func() {
		sc.session.Finish()
		sc.bus.PublishDone(sc.metrics.Summary(sc.session.Stopped()))
		sc.lifecycle.SignalDone()
	}()

	sc.bus.PublishStatus("Starting directory extraction from loaded page...")

	batch, err := extractor.ExtractListings(ctx, sc.render)
	if err != nil {
		sc.logger.Warn("bulk extraction failed", "error", err)
		sc.bus.PublishStatus("No listings found or invalid page structure.")
		return nil
	}
	if len(batch) == 0 {
		sc.bus.PublishStatus("No listings found or invalid page structure.")
		return nil
	}

	effective := len(batch)
	if limit := sc.session.Cap(); limit > 0 && limit < effective {
		effective = limit
	}
	sc.bus.PublishStatus(fmt.Sprintf("Found %d listings. Processing...", len(batch)))

	processed := 0
	for i := range effective {
		if ctx.Err() != nil {
			sc.session.Stop()
		}
		if !sc.session.Running() {
			sc.bus.PublishStatus("Extraction stopped by user.")
			break
		}

		// Spacing keeps the status stream observable for a listening
		// consumer; the first record passes immediately.
		if pacerErr := sc.pacer.NextRecord(ctx); pacerErr != nil {
			sc.session.Stop()
			sc.bus.PublishStatus("Extraction stopped by user.")
			break
		}

		sc.processListing(ctx, batch[i])
		processed++
		sc.metrics.IncrementProcessed()
		sc.bus.PublishProgress(processed * 100 / effective)
	}

	sc.bus.PublishStatus(fmt.Sprintf("Finished processing %d listings.", processed))
	return nil
}

// processListing converts one raw listing and persists it. Nameless listings
// are discarded without touching the store.
func (sc *SnapshotController) processListing(ctx context.Context, raw extractor.RawListing) {
	if raw.Name == "" || raw.Name == domain.FieldUnavailable {
		sc.bus.PublishRecord(events.OutcomeDiscarded, raw.Name)
		sc.bus.PublishStatus("Skipped listing without a name.")
		return
	}

	record := sc.buildRecord(raw)
	persistRecord(ctx, sc.store, sc.queryID, record, sc.bus, sc.metrics)
}

// buildRecord turns one raw listing into a Business with a fresh identifier
// and capture timestamp.
func (sc *SnapshotController) buildRecord(raw extractor.RawListing) *domain.Business {
	status := domain.WebsiteUnknown
	if raw.WebsiteStatus == string(domain.WebsiteOnline) {
		status = domain.WebsiteOnline
	}

	q := sc.session.Query()
	return &domain.Business{
		ID:            uuid.NewString(),
		Name:          raw.Name,
		Address:       orUnavailable(raw.Address),
		Phone:         orUnavailable(raw.Phone),
		Website:       orUnavailable(raw.Website),
		WebsiteStatus: status,
		Rating:        orUnavailable(raw.Rating),
		Votes:         orUnavailable(raw.Votes),
		Keyword:       q.Keyword,
		Location:      q.Location,
		ScrapedAt:     domain.NewTimestamp(time.Now()),
	}
}
