package driven

import (
	"context"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// CorpusStore persists the corpus snapshot.
//
// Save replaces the previous snapshot as a whole; it never merges.
// Load returns domain.ErrNotFound when no snapshot exists and an error
// matching domain.ErrCorruptStore when the snapshot is malformed.
type CorpusStore interface {
	// Save writes chunks as the new snapshot.
	Save(ctx context.Context, chunks []domain.Chunk) error

	// Load reads the snapshot with unit-normalised embeddings.
	Load(ctx context.Context) (*domain.Corpus, error)

	// Path returns the backing location, for logs and status output.
	Path() string
}
