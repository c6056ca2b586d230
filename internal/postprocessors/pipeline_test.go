package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name   string
	chunks []domain.Chunk
	err    error
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "test"})

	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}

func TestPipeline_Process_NilDocument(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	if err == nil {
		t.Error("expected error for nil document")
	}
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), &domain.Document{Source: "s", Content: "test content"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chunks != nil {
		t.Errorf("expected nil chunks from empty pipeline, got %v", chunks)
	}
}

func TestPipeline_Process_Order(t *testing.T) {
	first := []domain.Chunk{{Source: "s", Text: "first"}}
	p := NewPipeline(
		&mockProcessor{name: "creator", chunks: first},
		&mockProcessor{name: "passthrough"},
	)

	chunks, err := p.Process(context.Background(), &domain.Document{Source: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "first" {
		t.Errorf("expected chunks from first processor to flow through, got %v", chunks)
	}
}

func TestPipeline_Process_Error(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "broken", err: boom})

	_, err := p.Process(context.Background(), &domain.Document{Source: "s"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped processor error, got %v", err)
	}
	if err.Error() != "processor broken: boom" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestPipeline_Process_SourceMismatch(t *testing.T) {
	p := NewPipeline(&mockProcessor{name: "bad", chunks: []domain.Chunk{{Source: "other", Text: "x"}}})

	_, err := p.Process(context.Background(), &domain.Document{Source: "s"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewChunkingPipeline(t *testing.T) {
	p := NewChunkingPipeline(4, 2)

	chunks, err := p.Process(context.Background(), &domain.Document{Source: "catalog.txt", Content: "abcdefghij"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"abcd", "cdef", "efgh", "ghij", "ij"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, c := range chunks {
		if c.Text != want[i] || c.Source != "catalog.txt" {
			t.Errorf("chunk %d: got %+v", i, c)
		}
	}
}
