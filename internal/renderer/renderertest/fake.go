// Package renderertest provides a scripted in-memory Renderer for tests.
package renderertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonesrussell/goleads/internal/renderer"
)

// Fake is a Renderer whose behavior is scripted per test. The zero value
// loads every URL successfully and returns empty results from Evaluate.
type Fake struct {
	mu sync.Mutex

	// LoadErr, when set, is returned for URLs it maps. A missing entry loads
	// successfully.
	LoadErr map[string]error
	// EvalResults are returned from successive Evaluate calls, in order, by
	// JSON round-trip into the caller's out value.
	EvalResults []any
	// EvalErr, when set, fails every Evaluate call.
	EvalErr error
	// Location is what CurrentURL reports before any Load.
	Location string
	// OnLoad, when set, observes every Load in call order.
	OnLoad func(url string)

	loads  []string
	evals  int
	closed bool
}

var _ renderer.Renderer = (*Fake)(nil)

// Load records the navigation and honors the scripted error, if any.
func (f *Fake) Load(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.loads = append(f.loads, url)
	onLoad := f.OnLoad
	err := f.LoadErr[url]
	if err == nil {
		f.Location = url
	}
	f.mu.Unlock()
	if onLoad != nil {
		onLoad(url)
	}
	return err
}

// Evaluate returns the next scripted result by JSON round-trip.
func (f *Fake) Evaluate(ctx context.Context, script string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EvalErr != nil {
		return f.EvalErr
	}
	if f.evals >= len(f.EvalResults) {
		return fmt.Errorf("unexpected Evaluate call %d", f.evals+1)
	}
	result := f.EvalResults[f.evals]
	f.evals++
	if out == nil || result == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// CurrentURL reports the last loaded URL, or the preset Location.
func (f *Fake) CurrentURL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Location, nil
}

// ScrollToBottom is a no-op.
func (f *Fake) ScrollToBottom(ctx context.Context) error { return nil }

// Close marks the fake closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Loads returns every URL passed to Load, in order.
func (f *Fake) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}
