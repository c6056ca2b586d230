package domain

import (
	"fmt"
	"strings"
)

// SourceKind identifies how a source is fetched.
type SourceKind string

const (
	// SourceURL is fetched over HTTP(S).
	SourceURL SourceKind = "url"

	// SourceFile is read from the local filesystem.
	SourceFile SourceKind = "file"
)

// Source is one ingestion input.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	return s.Location
}

// ParseSource classifies a location. http:// and https:// prefixes
// are URLs; everything else is treated as a local path.
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Source{}, fmt.Errorf("%w: empty source", ErrInvalidInput)
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Source{Kind: SourceURL, Location: location}, nil
	}
	return Source{Kind: SourceFile, Location: location}, nil
}

// ParseSources parses a list of locations, skipping blanks.
func ParseSources(locations []string) ([]Source, error) {
	sources := make([]Source, 0, len(locations))
	for _, loc := range locations {
		if strings.TrimSpace(loc) == "" {
			continue
		}
		src, err := ParseSource(loc)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// SplitList splits a comma-separated list, trimming entries and dropping empties.
func SplitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
