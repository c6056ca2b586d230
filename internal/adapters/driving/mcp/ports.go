package mcp

import (
	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers queries.
	Retrieval driving.RetrievalService

	// Status reports on the corpus store. Optional.
	Status driving.StatusService

	// Sources lists the configured ingestion sources. Optional.
	Sources []domain.Source
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
