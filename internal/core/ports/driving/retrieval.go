package driving

import (
	"context"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// RetrievalService answers queries with ranked passages.
type RetrievalService interface {
	// Retrieve returns up to k passages ordered by descending score.
	// Missing credentials, a missing store and upstream failures yield an
	// empty result and no error. A corrupt store is returned as an error.
	Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}

// CacheInvalidator drops any cached corpus so the next call reloads it.
type CacheInvalidator interface {
	Invalidate()
}
