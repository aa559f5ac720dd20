// Package storage provides the deduplicating persistence layer. Each source
// (maps, directory) gets its own SQLite database holding a single fixed
// businesses table with a query_id column; query identifiers never become
// table names, so no DDL is ever built from user input. A unique index on
// (query_id, name, address) makes the exists+insert pair one atomic unit.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/jonesrussell/goleads/internal/domain"
)

const (
	// defaultBusyTimeout bounds how long a write waits on a locked database.
	defaultBusyTimeout = 5 * time.Second

	// DefaultPingTimeout is the timeout for verifying the connection at open.
	DefaultPingTimeout = 5 * time.Second
)

// Store is a deduplicating business-record store backed by one SQLite file.
type Store struct {
	db     *sqlx.DB
	source domain.Source
}

// Open opens (creating if needed) the store for one source. The schema is
// ensured at open; Open is safe to call on an existing database.
func Open(path string, source domain.Source) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on",
		path, defaultBusyTimeout.Milliseconds())

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids lock contention.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultPingTimeout)
	defer cancel()
	if pingErr := db.PingContext(ctx); pingErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	s := &Store{db: db, source: source}
	if schemaErr := s.ensureSchema(ctx); schemaErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", schemaErr)
	}
	return s, nil
}

// Source returns the listing site this store persists records for.
func (s *Store) Source() domain.Source {
	return s.source
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
