package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     SourceKind
		location string
	}{
		{"https url", "https://nuxway.net/", SourceURL, "https://nuxway.net/"},
		{"http url", "http://example.com/a", SourceURL, "http://example.com/a"},
		{"uppercase scheme", "HTTPS://example.com", SourceURL, "HTTPS://example.com"},
		{"relative file", "data/catalog.txt", SourceFile, "data/catalog.txt"},
		{"absolute file", "/srv/catalog.md", SourceFile, "/srv/catalog.md"},
		{"trimmed", "  catalog.txt \n", SourceFile, "catalog.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ParseSource(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, src.Kind)
			assert.Equal(t, tt.location, src.Location)
			assert.Equal(t, tt.location, src.String())
		})
	}
}

func TestParseSource_Empty(t *testing.T) {
	_, err := ParseSource("   ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParseSources_SkipsBlanks(t *testing.T) {
	sources, err := ParseSources([]string{"https://a.example", "", "  ", "notes.txt"})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, SourceURL, sources[0].Kind)
	assert.Equal(t, SourceFile, sources[1].Kind)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b ,,c ", []string{"a", "b", "c"}},
		{",,,", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SplitList(tt.input), "input %q", tt.input)
	}
}
