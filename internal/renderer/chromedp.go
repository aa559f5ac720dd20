package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/goleads/internal/logger"
)

// DefaultLoadTimeout bounds a single page navigation.
const DefaultLoadTimeout = 30 * time.Second

// Options configures the Chrome-backed renderer.
type Options struct {
	// RemoteURL, when set, attaches to an already running Chrome DevTools
	// endpoint instead of launching a browser. Useful for reusing a
	// logged-in session.
	RemoteURL string
	// Headless launches Chrome without a window. Ignored for RemoteURL.
	Headless bool
	// LoadTimeout bounds one navigation. Zero means DefaultLoadTimeout.
	LoadTimeout time.Duration
}

// Chrome is a Renderer backed by a Chrome instance driven over the DevTools
// protocol.
type Chrome struct {
	ctx         context.Context
	cancels     []context.CancelFunc
	loadTimeout time.Duration
	logger      logger.Interface
}

var _ Renderer = (*Chrome)(nil)

// NewChrome launches (or attaches to) Chrome and returns a ready renderer.
func NewChrome(ctx context.Context, opts Options, log logger.Interface) (*Chrome, error) {
	loadTimeout := opts.LoadTimeout
	if loadTimeout == 0 {
		loadTimeout = DefaultLoadTimeout
	}

	var cancels []context.CancelFunc
	allocCtx := ctx
	if opts.RemoteURL != "" {
		var cancel context.CancelFunc
		allocCtx, cancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
		cancels = append(cancels, cancel)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
		)
		var cancel context.CancelFunc
		allocCtx, cancel = chromedp.NewExecAllocator(ctx, execOpts...)
		cancels = append(cancels, cancel)
	}

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	cancels = append(cancels, cancel)

	// Force browser startup now so a misconfigured Chrome fails at
	// construction rather than on the first Load.
	if err := chromedp.Run(browserCtx); err != nil {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	log.Debug("Chrome renderer ready",
		"remote_url", opts.RemoteURL,
		"headless", opts.Headless)

	return &Chrome{
		ctx:         browserCtx,
		cancels:     cancels,
		loadTimeout: loadTimeout,
		logger:      log,
	}, nil
}

// Load navigates to the URL and waits for the document body to be ready.
func (c *Chrome) Load(ctx context.Context, url string) error {
	runCtx, cancel := c.runContext(ctx, c.loadTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		c.logger.Debug("page load failed", "url", url, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrLoadFailed, url, err)
	}
	return nil
}

// Evaluate runs script in the page and unmarshals its result into out.
func (c *Chrome) Evaluate(ctx context.Context, script string, out any) error {
	runCtx, cancel := c.runContext(ctx, c.loadTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("evaluate script: %w", err)
	}
	return nil
}

// CurrentURL reports the browser's current location.
func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	runCtx, cancel := c.runContext(ctx, c.loadTimeout)
	defer cancel()

	var loc string
	if err := chromedp.Run(runCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

// ScrollToBottom scrolls the page to its full height to trigger lazy loading.
func (c *Chrome) ScrollToBottom(ctx context.Context) error {
	runCtx, cancel := c.runContext(ctx, c.loadTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
	)
	if err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// Close tears down the browser context and allocator.
func (c *Chrome) Close() error {
	for i := len(c.cancels) - 1; i >= 0; i-- {
		c.cancels[i]()
	}
	return nil
}

// runContext derives a per-operation context that honors both the caller's
// cancellation and the browser's lifetime.
func (c *Chrome) runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(c.ctx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
