package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
	"github.com/nuxway/knowledge-rag/internal/logger"
)

// Ensure RetrievalService implements the interfaces.
var (
	_ driving.RetrievalService = (*RetrievalService)(nil)
	_ driving.CacheInvalidator = (*RetrievalService)(nil)
)

// RetrievalService answers queries against the cached corpus.
type RetrievalService struct {
	embedder driven.EmbeddingService
	cache    *CorpusCache
	defaultK int
}

// NewRetrievalService creates a new retrieval service.
// The embedder may be nil; queries then return no results.
func NewRetrievalService(embedder driven.EmbeddingService, cache *CorpusCache, defaultK int) *RetrievalService {
	if defaultK <= 0 {
		defaultK = domain.DefaultTopK
	}
	return &RetrievalService{
		embedder: embedder,
		cache:    cache,
		defaultK: defaultK,
	}
}

// Retrieve returns up to k passages for query, best first. k <= 0 selects
// the default. A missing credential, a missing store, an unreachable
// embedding service and a timeout all yield an empty result with a
// warning; a corrupt store is returned as an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if k <= 0 {
		k = s.defaultK
	}
	logger.Debug("Query: %q, k=%d", query, k)

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return s.degrade("load store", err)
	}
	if snap.Index.Len() == 0 {
		logger.Debug("Corpus has no searchable chunks")
		return []domain.SearchResult{}, nil
	}

	if s.embedder == nil {
		return s.degrade("embed query", fmt.Errorf("%w: no embedding service configured", domain.ErrConfiguration))
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return s.degrade("embed query", err)
	}

	hits, err := snap.Index.Search(ctx, vector, k)
	if err != nil {
		return s.degrade("search", err)
	}

	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.SearchResult{
			Score:  hit.Similarity,
			Source: snap.Corpus.Sources[hit.Position],
			Text:   snap.Corpus.Texts[hit.Position],
		}
	}
	logger.Debug("Returning %d results", len(results))
	return results, nil
}

// Invalidate drops the cached corpus.
func (s *RetrievalService) Invalidate() {
	s.cache.Invalidate()
}

// degrade decides whether err means "no context available" or a fault the
// operator must see.
func (s *RetrievalService) degrade(op string, err error) ([]domain.SearchResult, error) {
	if errors.Is(err, domain.ErrCorruptStore) {
		logger.Error("Retrieval failed (%s): %v", op, err)
		return nil, err
	}

	switch {
	case errors.Is(err, domain.ErrConfiguration),
		errors.Is(err, domain.ErrUpstream),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Retrieval degraded to no context (%s): %v", op, err)
		return []domain.SearchResult{}, nil
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}
