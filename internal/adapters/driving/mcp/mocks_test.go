package mcp

import (
	"context"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.SearchResult
	err     error
	lastK   int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, k int) ([]domain.SearchResult, error) {
	m.lastK = k
	return m.results, m.err
}

// mockStatusService is a mock implementation of driving.StatusService.
type mockStatusService struct {
	status domain.StoreStatus
}

func (m *mockStatusService) StoreStatus(_ context.Context) domain.StoreStatus {
	return m.status
}
