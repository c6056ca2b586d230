package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// DefaultPath is the store location when none is configured.
const DefaultPath = "knowledge_store.json"

// normEpsilon guards the L2 normalisation against zero vectors.
const normEpsilon = 1e-12

// snapshot is the on-disk layout.
type snapshot struct {
	Version int      `json:"version"`
	Docs    []record `json:"docs"`
}

type record struct {
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// rawSnapshot decodes with pointers so missing keys are detectable.
type rawSnapshot struct {
	Version *int         `json:"version"`
	Docs    *[]rawRecord `json:"docs"`
}

type rawRecord struct {
	Source    *string   `json:"source"`
	Text      *string   `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// Store reads and writes one snapshot file.
type Store struct {
	path string

	// mu serialises saves from this process.
	mu sync.Mutex
}

// New creates a store backed by path. An empty path uses DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save validates chunks and atomically replaces the snapshot.
func (s *Store) Save(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap, err := toSnapshot(chunks)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	committed = true
	return nil
}

func toSnapshot(chunks []domain.Chunk) (*snapshot, error) {
	snap := &snapshot{Version: domain.StoreVersion, Docs: make([]record, 0, len(chunks))}

	dims := -1
	for i, c := range chunks {
		if _, err := domain.NewChunk(c.Source, c.Text, c.Embedding); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		if len(c.Embedding) == 0 {
			return nil, fmt.Errorf("%w: chunk %d (%s) has no embedding", domain.ErrInvalidInput, i, c.Source)
		}
		if dims == -1 {
			dims = len(c.Embedding)
		} else if len(c.Embedding) != dims {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrInvalidInput, i, len(c.Embedding), dims)
		}
		for _, v := range c.Embedding {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return nil, fmt.Errorf("%w: chunk %d has a non-finite embedding value", domain.ErrInvalidInput, i)
			}
		}
		snap.Docs = append(snap.Docs, record{Source: c.Source, Text: c.Text, Embedding: c.Embedding})
	}

	return snap, nil
}

// Load reads the snapshot and returns a corpus with unit-length embeddings.
func (s *Store) Load(ctx context.Context) (*domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: corpus store %s (run ingestion first)", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, s.corrupt("invalid JSON", err)
	}
	if raw.Version == nil {
		return nil, s.corrupt("missing version", nil)
	}
	if *raw.Version != domain.StoreVersion {
		return nil, s.corrupt(fmt.Sprintf("unsupported version %d", *raw.Version), nil)
	}
	if raw.Docs == nil {
		return nil, s.corrupt("missing docs", nil)
	}

	docs := *raw.Docs
	corpus := &domain.Corpus{
		Texts:      make([]string, 0, len(docs)),
		Sources:    make([]string, 0, len(docs)),
		Embeddings: make([][]float32, 0, len(docs)),
	}

	for i, d := range docs {
		if d.Source == nil || d.Text == nil || d.Embedding == nil {
			return nil, s.corrupt(fmt.Sprintf("doc %d: missing field", i), nil)
		}
		chunk, err := domain.NewChunk(*d.Source, *d.Text, d.Embedding)
		if err != nil {
			return nil, s.corrupt(fmt.Sprintf("doc %d", i), err)
		}
		if chunk.Dimensions() == 0 {
			return nil, s.corrupt(fmt.Sprintf("doc %d: empty embedding", i), nil)
		}
		if i == 0 {
			corpus.Dimensions = chunk.Dimensions()
		} else if chunk.Dimensions() != corpus.Dimensions {
			return nil, s.corrupt(fmt.Sprintf("doc %d: ragged embeddings (%d vs %d dimensions)",
				i, chunk.Dimensions(), corpus.Dimensions), nil)
		}

		corpus.Texts = append(corpus.Texts, chunk.Text)
		corpus.Sources = append(corpus.Sources, chunk.Source)
		corpus.Embeddings = append(corpus.Embeddings, Normalize(chunk.Embedding))
	}

	return corpus, nil
}

func (s *Store) corrupt(reason string, err error) error {
	return &domain.CorruptStoreError{Path: s.path, Reason: reason, Err: err}
}

// Normalize returns v scaled to unit L2 norm. A zero vector stays zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
