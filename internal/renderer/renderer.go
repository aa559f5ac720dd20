// Package renderer defines the page-renderer capability the crawl core
// consumes: load a URL in a real browser, evaluate a script against the
// loaded document, and report the current location. The core never parses
// HTML itself; rendering and script evaluation are delegated here.
package renderer

import (
	"context"
	"errors"
)

// ErrLoadFailed is returned when a page fails to load. The crawl core treats
// it as a transient, per-target failure: skip and continue.
var ErrLoadFailed = errors.New("page load failed")

// Renderer is the external page-renderer capability.
type Renderer interface {
	// Load navigates to the URL and returns once the document is ready.
	Load(ctx context.Context, url string) error
	// Evaluate runs script against the loaded document and unmarshals the
	// result into out.
	Evaluate(ctx context.Context, script string, out any) error
	// CurrentURL reports the renderer's current location.
	CurrentURL(ctx context.Context) (string, error)
	// ScrollToBottom scrolls the loaded document to trigger lazy content.
	ScrollToBottom(ctx context.Context) error
	// Close releases the underlying browser.
	Close() error
}
