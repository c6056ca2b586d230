package html

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an HTML document to plain text.
// Malformed markup never fails: the tokenizer recovers and whatever text
// it can see is kept.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, title := extract(raw.Content)
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			Source:  raw.Source,
			URI:     raw.URI,
			Title:   title,
			Content: Collapse(text),
		},
	}, nil
}

// Text converts markup to normalised plain text.
func Text(markup []byte) string {
	text, _ := extract(markup)
	return Collapse(text)
}

// skipped elements contribute no text at all.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// extract returns every text node outside skipped elements, joined by
// newlines, and the first <title> text.
func extract(markup []byte) (string, string) {
	z := html.NewTokenizer(bytes.NewReader(markup))

	var (
		parts   []string
		title   string
		depth   int
		inTitle bool
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a reader error; either way the document ends here.
			return strings.Join(parts, "\n"), title

		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] {
				depth++
			}
			if a == atom.Title {
				inTitle = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] && depth > 0 {
				depth--
			}
			if a == atom.Title {
				inTitle = false
			}

		case html.TextToken:
			if depth > 0 {
				continue
			}
			s := string(z.Text())
			if inTitle && title == "" {
				title = strings.TrimSpace(s)
			}
			parts = append(parts, s)
		}
	}
}

var (
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	multiSpaces   = regexp.MustCompile(`[ \t]{2,}`)
)

// Collapse squeezes runs of three or more newlines to a blank line,
// runs of two or more spaces or tabs to one space, and trims the result.
// Collapse is idempotent.
func Collapse(s string) string {
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	s = multiSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// titleFromURI derives a title from the last path segment.
func titleFromURI(uri string) string {
	name := filepath.Base(strings.TrimRight(uri, "/"))
	if name == "." || name == "/" || strings.Contains(name, ":") {
		return ""
	}
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
