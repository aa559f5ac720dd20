package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/goleads/internal/extractor"
)

func TestMapsSearchURL(t *testing.T) {
	t.Parallel()
	got := extractor.MapsSearchURL("Coffee Shops", "New York")
	assert.Equal(t, "https://www.google.com/maps/search/Coffee+Shops+in+New+York", got)
}

func TestDirectorySearchURL(t *testing.T) {
	t.Parallel()
	got := extractor.DirectorySearchURL("Restaurants", "Pune")
	assert.Equal(t, "https://www.justdial.com/Pune/Restaurants", got)
}

func TestIsDirectoryURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"bare host", "https://justdial.com/Pune/Cafes", true},
		{"www host", "https://www.justdial.com/Pune/Cafes", true},
		{"other site", "https://www.google.com/maps", false},
		{"lookalike host", "https://notjustdial.com/Pune/Cafes", false},
		{"garbage", "://nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.IsDirectoryURL(tt.url))
		})
	}
}

func TestParseDirectoryURL(t *testing.T) {
	t.Parallel()

	t.Run("location and keyword from path", func(t *testing.T) {
		keyword, location, err := extractor.ParseDirectoryURL("https://www.justdial.com/Pune/Hardware-Stores?page=2")
		require.NoError(t, err)
		assert.Equal(t, "Hardware Stores", keyword)
		assert.Equal(t, "Pune", location)
	})

	t.Run("scheme added when missing", func(t *testing.T) {
		keyword, location, err := extractor.ParseDirectoryURL("www.justdial.com/new-delhi/coffee-shops")
		require.NoError(t, err)
		assert.Equal(t, "Coffee Shops", keyword)
		assert.Equal(t, "New Delhi", location)
	})

	t.Run("wrong site rejected", func(t *testing.T) {
		_, _, err := extractor.ParseDirectoryURL("https://example.com/Pune/Cafes")
		assert.ErrorIs(t, err, extractor.ErrInvalidDirectoryURL)
	})

	t.Run("short path rejected", func(t *testing.T) {
		_, _, err := extractor.ParseDirectoryURL("https://www.justdial.com/Pune")
		assert.ErrorIs(t, err, extractor.ErrInvalidDirectoryURL)
	})
}
