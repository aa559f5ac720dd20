package domain

import "fmt"

// Source identifies which listing site a record or store belongs to.
// Each source has its own backing database and schema.
type Source string

const (
	// SourceMaps is the maps service, crawled in Sequential Mode.
	SourceMaps Source = "maps"
	// SourceDirectory is the local-business directory, captured in Snapshot Mode.
	SourceDirectory Source = "directory"
)

// ParseSource validates a user-supplied source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceMaps, SourceDirectory:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown source %q (want %q or %q)", s, SourceMaps, SourceDirectory)
	}
}
