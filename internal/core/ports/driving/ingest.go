package driving

import (
	"context"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// IngestionService builds a fresh corpus snapshot from a list of sources.
type IngestionService interface {
	// Ingest fetches, normalises, chunks and embeds every source, then
	// replaces the stored snapshot. Per-source failures are reported,
	// not returned; an embedding failure aborts with nothing written.
	Ingest(ctx context.Context, sources []domain.Source) (*domain.IngestReport, error)
}
