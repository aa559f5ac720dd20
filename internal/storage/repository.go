package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/query"
)

// QueryInfo describes one stored query for the viewer.
type QueryInfo struct {
	ID       string `db:"query_id"`
	Keyword  string `db:"keyword"`
	Location string `db:"location"`
	Records  int64  `db:"records"`
}

// EnsureQuery registers a query and returns its normalized identifier.
// Idempotent: re-registering an existing query is a no-op.
func (s *Store) EnsureQuery(ctx context.Context, q query.Query) (string, error) {
	id := q.ID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (query_id, keyword, location, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (query_id) DO NOTHING`,
		id, q.Keyword, q.Location, domain.NewTimestamp(time.Now()))
	if err != nil {
		return "", fmt.Errorf("ensure query %q: %w", id, err)
	}
	return id, nil
}

// Exists reports whether a record with the given dedup key is already stored.
func (s *Store) Exists(ctx context.Context, queryID, name, address string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM businesses WHERE query_id = ? AND name = ? AND address = ?)`,
		queryID, name, address)
	if err != nil {
		return false, fmt.Errorf("exists check for %q: %w", queryID, err)
	}
	return exists, nil
}

// Insert persists one record under the given query. It returns false with a
// nil error when a record with the same (name, address) is already stored;
// the conflict check and the write are a single atomic statement.
func (s *Store) Insert(ctx context.Context, queryID string, b *domain.Business) (bool, error) {
	if !b.HasName() {
		return false, ErrMissingName
	}

	var res sql.Result
	var err error

	if s.source == domain.SourceMaps {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO businesses (query_id, name, address, phone, website, keyword, location, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (query_id, name, address) DO NOTHING`,
			queryID, b.Name, b.Address, b.Phone, b.Website, b.Keyword, b.Location, b.ScrapedAt)
	} else {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO businesses (id, query_id, name, address, phone, website, website_status,
			                         rating, votes, keyword, location, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (query_id, name, address) DO NOTHING`,
			b.ID, queryID, b.Name, b.Address, b.Phone, b.Website, string(b.WebsiteStatus),
			b.Rating, b.Votes, b.Keyword, b.Location, b.ScrapedAt)
	}
	if err != nil {
		return false, fmt.Errorf("insert %q into %q: %w", b.Name, queryID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get affected rows: %w", err)
	}
	return affected > 0, nil
}

// ListQueries returns every registered query with its record count,
// most recent first. This is the viewer's table-list passthrough.
func (s *Store) ListQueries(ctx context.Context) ([]QueryInfo, error) {
	var infos []QueryInfo
	err := s.db.SelectContext(ctx, &infos,
		`SELECT q.query_id, q.keyword, q.location,
		        COUNT(b.rowid) AS records
		 FROM queries q
		 LEFT JOIN businesses b ON b.query_id = q.query_id
		 GROUP BY q.query_id, q.keyword, q.location
		 ORDER BY q.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return infos, nil
}

// Count returns the number of records stored under one query.
func (s *Store) Count(ctx context.Context, queryID string) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM businesses WHERE query_id = ?`, queryID)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", queryID, err)
	}
	return n, nil
}

// Rows returns the column names and all rows for one query in insertion
// order, as strings, for the viewer and exporters.
func (s *Store) Rows(ctx context.Context, queryID string) ([]string, [][]string, error) {
	var registered bool
	if err := s.db.GetContext(ctx, &registered,
		`SELECT EXISTS (SELECT 1 FROM queries WHERE query_id = ?)`, queryID); err != nil {
		return nil, nil, fmt.Errorf("look up query %q: %w", queryID, err)
	}
	if !registered {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownQuery, queryID)
	}

	columns := s.Columns()
	sel := ""
	for i, c := range columns {
		if i > 0 {
			sel += ", "
		}
		sel += c
	}

	rows, err := s.db.QueryxContext(ctx,
		`SELECT `+sel+` FROM businesses WHERE query_id = ? ORDER BY rowid`, queryID)
	if err != nil {
		return nil, nil, fmt.Errorf("select rows for %q: %w", queryID, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		vals, scanErr := rows.SliceScan()
		if scanErr != nil {
			return nil, nil, fmt.Errorf("scan row for %q: %w", queryID, scanErr)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = stringify(v)
		}
		out = append(out, row)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, nil, fmt.Errorf("iterate rows for %q: %w", queryID, rowsErr)
	}
	return columns, out, nil
}

// stringify renders a scanned SQLite value for display/export.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
