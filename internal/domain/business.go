// Package domain provides domain models used across the application.
package domain

import "time"

// FieldUnavailable is the placeholder stored when a listing does not expose a field.
const FieldUnavailable = "N/A"

// WebsiteStatus indicates whether a listing advertised a reachable website.
type WebsiteStatus string

const (
	// WebsiteUnknown means no external website was found for the listing.
	WebsiteUnknown WebsiteStatus = "Unknown"
	// WebsiteOnline means the listing advertised an external website link.
	WebsiteOnline WebsiteStatus = "Online"
)

// Business represents one extracted business record.
// Within a single query, records are identified by the (Name, Address) pair;
// ID is a storage surrogate, never the dedup key.
type Business struct {
	// Unique identifier. Directory records carry a UUID assigned at capture
	// time; maps records leave this empty and take an autoincrement surrogate
	// from storage.
	ID string `json:"id,omitempty" db:"id"`
	// Business name. Records without a name are discarded before storage.
	Name string `json:"name" db:"name"`
	// Street address as reported by the listing.
	Address string `json:"address" db:"address"`
	// Phone number as reported by the listing.
	Phone string `json:"phone" db:"phone"`
	// Website URL, or "N/A" when the listing has none.
	Website string `json:"website" db:"website"`
	// WebsiteStatus is Online when an external website link was present.
	WebsiteStatus WebsiteStatus `json:"website_status,omitempty" db:"website_status"`
	// Site-reported rating, free-form (directory records only).
	Rating string `json:"rating,omitempty" db:"rating"`
	// Site-reported vote/review count, free-form (directory records only).
	Votes string `json:"votes,omitempty" db:"votes"`
	// Keyword is the query term this record was collected under.
	Keyword string `json:"keyword" db:"keyword"`
	// Location is the query locality this record was collected under.
	Location string `json:"location" db:"location"`
	// ScrapedAt is the extraction timestamp, ISO-8601.
	ScrapedAt string `json:"scraped_at" db:"scraped_at"`
}

// NewTimestamp returns the ISO-8601 timestamp assigned to records at extraction.
func NewTimestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// HasName reports whether the record carries a usable name.
func (b *Business) HasName() bool {
	return b.Name != "" && b.Name != FieldUnavailable
}
