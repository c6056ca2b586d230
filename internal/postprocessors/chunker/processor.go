// Package chunker provides a fixed-size, overlapping text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1200

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into fixed-size chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks tagged with the
// document's source. Input chunks are ignored. Embeddings are left nil.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	windows := Split(doc.Content, p.chunkSize, p.overlap)
	if len(windows) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(windows))
	for _, w := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := domain.NewChunk(doc.Source, w, nil)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}

	return chunks, nil
}

// Split cuts text into windows of at most maxChars characters, starting
// every maxChars-overlap characters. When overlap >= maxChars the step is
// maxChars, so windows never overlap and the loop always advances. Each
// window is trimmed and blank windows are dropped. Lengths are counted in
// runes so multi-byte characters are never split.
func Split(text string, maxChars, overlap int) []string {
	if maxChars < 1 || text == "" {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	step := maxChars - overlap
	if overlap >= maxChars {
		step = maxChars
	}

	runes := []rune(text)
	n := len(runes)

	var out []string
	for i := 0; i < n; i += step {
		end := i + maxChars
		if end > n {
			end = n
		}
		if w := strings.TrimSpace(string(runes[i:end])); w != "" {
			out = append(out, w)
		}
	}
	return out
}
