// Package filesystem reads source documents from local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Fetcher = (*Connector)(nil)

// extensionTypes maps well-known extensions to MIME types. Anything else
// is sniffed from content.
var extensionTypes = map[string]string{
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".json":     "application/json",
}

// Connector reads single files.
type Connector struct{}

// New creates a filesystem connector.
func New() *Connector {
	return &Connector{}
}

// Fetch reads the file named by src.Location.
func (c *Connector) Fetch(ctx context.Context, src domain.Source) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: err}
	}

	path := ResolvePath(src.Location)
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: err}
	}
	if info.IsDir() {
		return nil, &domain.FetchError{
			Source: src.Location,
			Err:    fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path),
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: err}
	}

	uri := path
	if abs, err := filepath.Abs(path); err == nil {
		uri = abs
	}

	return &domain.RawDocument{
		Source:   src.Location,
		URI:      "file://" + filepath.ToSlash(uri),
		MIMEType: DetectMIMEType(path, content),
		Content:  content,
	}, nil
}

// DetectMIMEType resolves a file's type from its extension, falling back
// to content sniffing.
func DetectMIMEType(path string, content []byte) string {
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	mt := mimetype.Detect(content).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
