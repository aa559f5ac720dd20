package extractor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	mapsHost      = "www.google.com"
	directoryHost = "justdial.com"
)

var (
	// ErrInvalidDirectoryURL is returned when a direct URL does not point at
	// the directory site or lacks the /location/keyword path shape.
	ErrInvalidDirectoryURL = errors.New("invalid directory URL")
)

var titleCaser = cases.Title(language.English)

// MapsSearchURL builds the maps search page URL for a query.
func MapsSearchURL(keyword, location string) string {
	return fmt.Sprintf("https://%s/maps/search/%s+in+%s",
		mapsHost, url.QueryEscape(keyword), url.QueryEscape(location))
}

// DirectorySearchURL builds the directory search page URL for a query.
func DirectorySearchURL(keyword, location string) string {
	return fmt.Sprintf("https://www.%s/%s/%s",
		directoryHost, url.QueryEscape(location), url.QueryEscape(keyword))
}

// IsDirectoryURL reports whether raw points at the directory site. Used as
// the Snapshot Mode page precondition.
func IsDirectoryURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == directoryHost || strings.HasSuffix(host, "."+directoryHost)
}

// ParseDirectoryURL derives the (keyword, location) pair from a direct
// directory URL of the form https://host/<location>/<keyword>[?query].
// Hyphens become spaces and both parts are title-cased, matching how the
// site slugs its paths. Supports reusing a logged-in session by URL.
func ParseDirectoryURL(raw string) (keyword, location string, err error) {
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	if !IsDirectoryURL(raw) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDirectoryURL, raw)
	}

	parsed, parseErr := url.Parse(raw)
	if parseErr != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidDirectoryURL, parseErr)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: path %q has no location/keyword", ErrInvalidDirectoryURL, parsed.Path)
	}

	location = titleCaser.String(strings.ReplaceAll(parts[0], "-", " "))
	keyword = titleCaser.String(strings.ReplaceAll(parts[1], "-", " "))
	return keyword, location, nil
}
