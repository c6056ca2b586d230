// Package markdown provides a Normaliser for Markdown documents.
// Markdown is rendered to HTML with goldmark and then reduced to text
// the same way web pages are.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
	"github.com/nuxway/knowledge-rag/internal/normalisers/html"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a Markdown document to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	var buf bytes.Buffer
	if err := n.md.Convert(raw.Content, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			Source:  raw.Source,
			URI:     raw.URI,
			Title:   extractTitle(string(raw.Content), raw.URI),
			Content: html.Text(buf.Bytes()),
		},
	}, nil
}

// extractTitle returns the first level-one heading, or the file name.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	name := filepath.Base(uri)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
