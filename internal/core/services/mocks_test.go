package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// --- Mock implementations ---

// mockFetcher serves canned documents keyed by location.
type mockFetcher struct {
	docs map[string]*domain.RawDocument
	errs map[string]error
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		docs: make(map[string]*domain.RawDocument),
		errs: make(map[string]error),
	}
}

func (m *mockFetcher) add(location, mimeType, content string) {
	m.docs[location] = &domain.RawDocument{
		Source:   location,
		URI:      location,
		MIMEType: mimeType,
		Content:  []byte(content),
	}
}

func (m *mockFetcher) fail(location string, err error) {
	m.errs[location] = &domain.FetchError{Source: location, Err: err}
}

func (m *mockFetcher) Fetch(ctx context.Context, src domain.Source) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: err}
	}
	if err, ok := m.errs[src.Location]; ok {
		return nil, err
	}
	if doc, ok := m.docs[src.Location]; ok {
		return doc, nil
	}
	return nil, &domain.FetchError{Source: src.Location, Err: errors.New("no such document")}
}

// mockEmbedder returns fixed vectors by text, or a default vector.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error

	batchCalls atomic.Int32
	embedCalls atomic.Int32
	lastBatch  []string
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors:  make(map[string][]float32),
		fallback: []float32{1, 1},
	}
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.fallback
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	m.lastBatch = texts
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbedder) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbedder) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEmbedder) Close() error {
	return nil
}

// mockStore keeps the snapshot in memory and counts loads.
type mockStore struct {
	mu      sync.Mutex
	corpus  *domain.Corpus
	saved   []domain.Chunk
	saves   int
	loadErr error
	saveErr error
	loads   atomic.Int32

	// gate, when set, blocks Load until closed.
	gate chan struct{}
}

func (m *mockStore) Path() string { return "mem://store" }

func (m *mockStore) Save(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *mockStore) Load(ctx context.Context) (*domain.Corpus, error) {
	m.loads.Add(1)
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.corpus == nil {
		return nil, domain.ErrNotFound
	}
	return m.corpus, nil
}

func (m *mockStore) setCorpus(c *domain.Corpus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus = c
}
