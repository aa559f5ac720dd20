package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Default pacing values, chosen empirically against the live sites.
const (
	// DefaultSettleDelay compensates for client-side rendering lag after a
	// page load reports complete.
	DefaultSettleDelay = 600 * time.Millisecond
	// DefaultPageInterval is the minimum interval between page loads, to
	// avoid hammering the remote render target.
	DefaultPageInterval = 800 * time.Millisecond
	// DefaultRecordInterval spaces Snapshot Mode record events so a
	// listening consumer sees an ordered, observable stream. Not a
	// rate-limit necessity.
	DefaultRecordInterval = 100 * time.Millisecond
)

// Pacing is the configurable pacing policy of a crawl. Zero values disable
// the corresponding wait, which is how tests run instantly.
type Pacing struct {
	// Settle is the wait between load completion and extraction.
	Settle time.Duration `yaml:"settle_delay"`
	// PageInterval is the minimum interval between page loads.
	PageInterval time.Duration `yaml:"page_interval"`
	// RecordInterval is the minimum interval between Snapshot Mode records.
	RecordInterval time.Duration `yaml:"record_interval"`
}

// DefaultPacing returns the production pacing policy.
func DefaultPacing() Pacing {
	return Pacing{
		Settle:         DefaultSettleDelay,
		PageInterval:   DefaultPageInterval,
		RecordInterval: DefaultRecordInterval,
	}
}

// Pacer applies a Pacing policy. Inter-request spacing is a token-bucket
// limiter (minimum interval, not a literal sleep chain), so a burst-free
// cadence survives variable extraction times.
type Pacer struct {
	settle        time.Duration
	pageLimiter   *rate.Limiter
	recordLimiter *rate.Limiter
}

// NewPacer builds a Pacer for the given policy.
func NewPacer(p Pacing) *Pacer {
	return &Pacer{
		settle:        p.Settle,
		pageLimiter:   newIntervalLimiter(p.PageInterval),
		recordLimiter: newIntervalLimiter(p.RecordInterval),
	}
}

// newIntervalLimiter returns a limiter enforcing one event per interval,
// with one token of burst so the first event passes immediately.
func newIntervalLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Settle waits out the post-load settle delay, honoring cancellation.
func (p *Pacer) Settle(ctx context.Context) error {
	return wait(ctx, p.settle)
}

// NextPage blocks until the next page load is allowed.
func (p *Pacer) NextPage(ctx context.Context) error {
	return p.pageLimiter.Wait(ctx)
}

// NextRecord blocks until the next record may be emitted.
func (p *Pacer) NextRecord(ctx context.Context) error {
	return p.recordLimiter.Wait(ctx)
}

// wait is a cancellable sleep.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
