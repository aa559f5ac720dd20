// Package crawler provides the crawl orchestration core: the session state
// machine, the Sequential Mode cursor, and the Snapshot Mode capture
// controller.
package crawler

import "errors"

var (
	// ErrNoTargets is returned when a Sequential Mode scrape starts with an
	// empty target list.
	ErrNoTargets = errors.New("no targets collected")

	// ErrAlreadyRunning is returned when a scrape starts while another
	// session in the same mode is scraping.
	ErrAlreadyRunning = errors.New("a crawl is already running")

	// ErrInvalidPage is returned when Snapshot Mode runs against a page that
	// is not on the directory site. The controller never navigates.
	ErrInvalidPage = errors.New("current page is not a directory listing page")

	// ErrInvalidTransition is returned for any other disallowed session
	// phase change. The session state is left unchanged.
	ErrInvalidTransition = errors.New("invalid session transition")
)
