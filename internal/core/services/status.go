package services

import (
	"context"
	"errors"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService inspects the corpus store.
type StatusService struct {
	store driven.CorpusStore
}

// NewStatusService creates a new status service.
func NewStatusService(store driven.CorpusStore) *StatusService {
	return &StatusService{store: store}
}

// StoreStatus loads the store and summarises it.
func (s *StatusService) StoreStatus(ctx context.Context) domain.StoreStatus {
	status := domain.StoreStatus{Path: s.store.Path()}

	corpus, err := s.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		status.State = domain.StoreMissing
		status.Detail = "run ingestion to create it"
		return status
	case errors.Is(err, domain.ErrCorruptStore):
		status.State = domain.StoreCorrupt
		status.Detail = err.Error()
		return status
	default:
		status.State = domain.StoreError
		status.Detail = err.Error()
		return status
	}

	status.State = domain.StoreReady
	status.Chunks = corpus.Len()
	status.Dimensions = corpus.Dimensions

	seen := make(map[string]struct{})
	for _, src := range corpus.Sources {
		seen[src] = struct{}{}
	}
	status.Sources = len(seen)
	return status
}
