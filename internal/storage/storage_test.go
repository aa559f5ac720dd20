package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goleads/internal/domain"
	"github.com/jonesrussell/goleads/internal/query"
	"github.com/jonesrussell/goleads/internal/storage"
)

func openTestStore(t *testing.T, source domain.Source) *storage.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), string(source)+".db")
	s, err := storage.Open(path, source)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mapsRecord(name, address string) *domain.Business {
	return &domain.Business{
		Name:      name,
		Address:   address,
		Phone:     "555-0100",
		Website:   "https://example.com",
		Keyword:   "Cafes",
		Location:  "Pune",
		ScrapedAt: domain.NewTimestamp(time.Now()),
	}
}

func directoryRecord(name, address string) *domain.Business {
	b := mapsRecord(name, address)
	b.ID = uuid.NewString()
	b.WebsiteStatus = domain.WebsiteOnline
	b.Rating = "4.2"
	b.Votes = "123"
	return b
}

func TestEnsureQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, domain.SourceMaps)

	q, err := query.New("Cafes", "Pune")
	require.NoError(t, err)

	id, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "cafes_pune", id)

	// Idempotent
	again, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	infos, err := s.ListQueries(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "cafes_pune", infos[0].ID)
	assert.Equal(t, int64(0), infos[0].Records)
}

func TestInsert_Dedup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, domain.SourceMaps)

	q, err := query.New("Cafes", "Pune")
	require.NoError(t, err)
	id, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)

	inserted, err := s.Insert(ctx, id, mapsRecord("Joe's Cafe", "MG Road"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same (name, address), different scraped_at: skipped, not duplicated.
	later := mapsRecord("Joe's Cafe", "MG Road")
	later.ScrapedAt = domain.NewTimestamp(time.Now().Add(time.Hour))
	inserted, err = s.Insert(ctx, id, later)
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := s.Count(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Same name at a different address is a distinct business.
	inserted, err = s.Insert(ctx, id, mapsRecord("Joe's Cafe", "FC Road"))
	require.NoError(t, err)
	assert.True(t, inserted)

	exists, err := s.Exists(ctx, id, "Joe's Cafe", "MG Road")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, id, "Joe's Cafe", "Station Road")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInsert_MissingName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, domain.SourceMaps)

	q, err := query.New("Cafes", "Pune")
	require.NoError(t, err)
	id, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)

	for _, name := range []string{"", "N/A"} {
		b := mapsRecord(name, "MG Road")
		inserted, insertErr := s.Insert(ctx, id, b)
		assert.ErrorIs(t, insertErr, storage.ErrMissingName)
		assert.False(t, inserted)
	}
}

func TestInsert_QueriesIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, domain.SourceMaps)

	first, err := query.New("Cafes", "Pune")
	require.NoError(t, err)
	second, err := query.New("Bars", "Pune")
	require.NoError(t, err)

	firstID, err := s.EnsureQuery(ctx, first)
	require.NoError(t, err)
	secondID, err := s.EnsureQuery(ctx, second)
	require.NoError(t, err)

	// The same business may appear under two different queries.
	inserted, err := s.Insert(ctx, firstID, mapsRecord("Joe's Cafe", "MG Road"))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Insert(ctx, secondID, mapsRecord("Joe's Cafe", "MG Road"))
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestDirectorySchema(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, domain.SourceDirectory)

	q, err := query.New("Restaurants", "Pune")
	require.NoError(t, err)
	id, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)

	b := directoryRecord("Spice Villa", "FC Road")
	inserted, err := s.Insert(ctx, id, b)
	require.NoError(t, err)
	assert.True(t, inserted)

	columns, rows, err := s.Rows(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id", "name", "address", "phone", "website", "website_status",
		"rating", "votes", "keyword", "location", "scraped_at",
	}, columns)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0][0])
	assert.Equal(t, "Spice Villa", rows[0][1])
	assert.Equal(t, "Online", rows[0][5])
	assert.Equal(t, "4.2", rows[0][6])
}

func TestRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, domain.SourceMaps)

	q, err := query.New("Cafes", "Pune")
	require.NoError(t, err)
	id, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)

	names := []string{"Alpha", "Bravo", "Charlie"}
	for _, name := range names {
		inserted, insertErr := s.Insert(ctx, id, mapsRecord(name, "MG Road"))
		require.NoError(t, insertErr)
		require.True(t, inserted)
	}

	columns, rows, err := s.Rows(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "address", "phone", "website", "keyword", "location", "scraped_at"}, columns)
	require.Len(t, rows, 3)
	// Insertion order preserved.
	for i, name := range names {
		assert.Equal(t, name, rows[i][1])
	}

	_, _, err = s.Rows(ctx, "never_registered")
	assert.ErrorIs(t, err, storage.ErrUnknownQuery)
}

func TestReopen_ResumesDedup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "maps.db")

	s, err := storage.Open(path, domain.SourceMaps)
	require.NoError(t, err)

	q, err := query.New("Cafes", "Pune")
	require.NoError(t, err)
	id, err := s.EnsureQuery(ctx, q)
	require.NoError(t, err)

	inserted, err := s.Insert(ctx, id, mapsRecord("Joe's Cafe", "MG Road"))
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, s.Close())

	// A later crawl for the same query resumes dedup against stored rows.
	s, err = storage.Open(path, domain.SourceMaps)
	require.NoError(t, err)
	defer s.Close()

	inserted, err = s.Insert(ctx, id, mapsRecord("Joe's Cafe", "MG Road"))
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := s.Count(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
