package driving

import (
	"context"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// StatusService reports on the corpus store for health checks and diagnostics.
type StatusService interface {
	// StoreStatus reads the store from disk, bypassing any cache.
	StoreStatus(ctx context.Context) domain.StoreStatus
}
