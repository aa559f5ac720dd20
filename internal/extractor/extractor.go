// Package extractor turns rendered listing pages into raw field records by
// evaluating page scripts through the renderer. Selector heuristics live in
// scripts.go; this file is the typed surface the crawl core calls.
package extractor

import (
	"context"
	"fmt"

	"github.com/jonesrussell/goleads/internal/renderer"
)

// RawPlace is the field set scraped from one maps place page.
type RawPlace struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
}

// RawListing is one directory listing as returned by the bulk page script.
// The script already deduplicates listings page-locally by visible name.
type RawListing struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Website       string `json:"website"`
	WebsiteStatus string `json:"website_status"`
	Rating        string `json:"rating"`
	Votes         string `json:"votes"`
}

// CollectPlaceLinks harvests unique place URLs from the loaded maps search
// page, in page order, truncated to max. The page script applies its own
// hard cap of 200 before the client cap.
func CollectPlaceLinks(ctx context.Context, r renderer.Renderer, max int) ([]string, error) {
	var hrefs []string
	if err := r.Evaluate(ctx, collectPlaceLinksScript, &hrefs); err != nil {
		return nil, fmt.Errorf("collect place links: %w", err)
	}
	if max > 0 && len(hrefs) > max {
		hrefs = hrefs[:max]
	}
	return hrefs, nil
}

// ExtractPlace scrapes the fields of the currently loaded place page.
func ExtractPlace(ctx context.Context, r renderer.Renderer) (*RawPlace, error) {
	var place RawPlace
	if err := r.Evaluate(ctx, extractPlaceScript, &place); err != nil {
		return nil, fmt.Errorf("extract place: %w", err)
	}
	return &place, nil
}

// ExtractListings runs the bulk listing script once against the loaded
// directory page and returns the page-deduplicated batch in page order.
func ExtractListings(ctx context.Context, r renderer.Renderer) ([]RawListing, error) {
	var listings []RawListing
	if err := r.Evaluate(ctx, extractListingsScript, &listings); err != nil {
		return nil, fmt.Errorf("extract listings: %w", err)
	}
	return listings, nil
}
