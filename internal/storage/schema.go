package storage

import (
	"context"
	"fmt"

	"github.com/jonesrussell/goleads/internal/domain"
)

// queriesSchema registers every query the store has seen, so the viewer can
// list a query as soon as a crawl starts, before any record lands.
const queriesSchema = `
CREATE TABLE IF NOT EXISTS queries (
	query_id   TEXT PRIMARY KEY,
	keyword    TEXT NOT NULL,
	location   TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// mapsSchema holds Sequential Mode records. The maps site exposes no
// rating/votes and records get an autoincrement surrogate key.
const mapsSchema = `
CREATE TABLE IF NOT EXISTS businesses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	query_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	address    TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	website    TEXT NOT NULL DEFAULT '',
	keyword    TEXT NOT NULL DEFAULT '',
	location   TEXT NOT NULL DEFAULT '',
	scraped_at TEXT NOT NULL DEFAULT '',
	UNIQUE (query_id, name, address)
)`

// directorySchema holds Snapshot Mode records. Directory records carry a
// UUID assigned at capture plus rating/votes/website_status fields.
const directorySchema = `
CREATE TABLE IF NOT EXISTS businesses (
	id             TEXT PRIMARY KEY,
	query_id       TEXT NOT NULL,
	name           TEXT NOT NULL,
	address        TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	website        TEXT NOT NULL DEFAULT '',
	website_status TEXT NOT NULL DEFAULT 'Unknown',
	rating         TEXT NOT NULL DEFAULT 'N/A',
	votes          TEXT NOT NULL DEFAULT 'N/A',
	keyword        TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	scraped_at     TEXT NOT NULL DEFAULT '',
	UNIQUE (query_id, name, address)
)`

const queryIndex = `CREATE INDEX IF NOT EXISTS idx_businesses_query ON businesses (query_id)`

// mapsColumns and directoryColumns are the viewer/export column orders.
var (
	mapsColumns      = []string{"id", "name", "address", "phone", "website", "keyword", "location", "scraped_at"}
	directoryColumns = []string{
		"id", "name", "address", "phone", "website", "website_status",
		"rating", "votes", "keyword", "location", "scraped_at",
	}
)

// ensureSchema creates the fixed tables for the store's source.
func (s *Store) ensureSchema(ctx context.Context) error {
	var businessSchema string
	switch s.source {
	case domain.SourceMaps:
		businessSchema = mapsSchema
	case domain.SourceDirectory:
		businessSchema = directorySchema
	default:
		return fmt.Errorf("unknown source %q", s.source)
	}

	for _, stmt := range []string{queriesSchema, businessSchema, queryIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}

// Columns returns the viewer/export column order for the store's source.
func (s *Store) Columns() []string {
	if s.source == domain.SourceMaps {
		return append([]string(nil), mapsColumns...)
	}
	return append([]string(nil), directoryColumns...)
}
