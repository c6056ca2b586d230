package driven

import (
	"context"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// Fetcher retrieves the raw content of a source.
// Failures are returned as *domain.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, src domain.Source) (*domain.RawDocument, error)
}
