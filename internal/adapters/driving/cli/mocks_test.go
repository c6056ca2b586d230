package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/nuxway/knowledge-rag/internal/config"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

type mockIngestion struct {
	report  *domain.IngestReport
	err     error
	sources []domain.Source
}

func (m *mockIngestion) Ingest(_ context.Context, sources []domain.Source) (*domain.IngestReport, error) {
	m.sources = sources
	return m.report, m.err
}

type mockRetrieval struct {
	results []domain.SearchResult
	err     error
	query   string
	k       int
}

func (m *mockRetrieval) Retrieve(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	m.query = query
	m.k = k
	return m.results, m.err
}

type mockStatus struct {
	status domain.StoreStatus
}

func (m *mockStatus) StoreStatus(_ context.Context) domain.StoreStatus {
	return m.status
}

type mockEmbedding struct {
	pingErr error
	closed  bool
}

func (m *mockEmbedding) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int              { return 2 }
func (m *mockEmbedding) ModelName() string            { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return m.pingErr }
func (m *mockEmbedding) Close() error                 { m.closed = true; return nil }

// setupTestServices injects a bundle built around mocks and returns it
// with a cleanup func.
func setupTestServices(t *testing.T) *Services {
	t.Helper()

	cfg := config.Default()
	cfg.Embedding.APIKey = "sk-test"

	svc := &Services{
		Config:    cfg,
		Sources:   []domain.Source{{Kind: domain.SourceURL, Location: "https://nuxway.net/"}},
		Ingestion: &mockIngestion{},
		Retrieval: &mockRetrieval{},
		Status: &mockStatus{status: domain.StoreStatus{
			Path: "knowledge_store.json", State: domain.StoreReady, Chunks: 3, Sources: 1, Dimensions: 2,
		}},
		Embedding: &mockEmbedding{},
	}

	previous := active
	SetServices(svc)
	t.Cleanup(func() { SetServices(previous) })
	return svc
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
