// Package query normalizes (keyword, location) pairs into storage query
// identifiers. Identifiers are normalized so that the same query expressed
// differently produces the same id for deduplication and lookup.
package query

import (
	"errors"
	"strings"
)

var (
	errEmptyKeyword  = errors.New("normalize query: empty keyword")
	errEmptyLocation = errors.New("normalize query: empty location")
)

// Query is a (keyword, location) pair identifying one crawl's record set.
type Query struct {
	Keyword  string
	Location string
}

// New validates and builds a Query from raw user input.
func New(keyword, location string) (Query, error) {
	keyword = strings.TrimSpace(keyword)
	location = strings.TrimSpace(location)
	if keyword == "" {
		return Query{}, errEmptyKeyword
	}
	if location == "" {
		return Query{}, errEmptyLocation
	}
	return Query{Keyword: keyword, Location: location}, nil
}

// ID returns the normalized storage identifier for the query.
func (q Query) ID() string {
	return Normalize(q.Keyword, q.Location)
}

// Normalize turns a keyword and location into a storage query identifier:
// lowercase, joined with an underscore, spaces replaced by underscores, and
// every character outside [a-z0-9_] stripped. The mapping is deterministic
// but not injective: distinct queries can normalize to the same identifier
// ("Foo Bar"/"Baz" and "Foo"/"Bar Baz" collide). That collision is inherited
// from the identifier format and is not resolved here.
func Normalize(keyword, location string) string {
	joined := strings.ToLower(keyword + "_" + location)
	joined = strings.ReplaceAll(joined, " ", "_")

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
