// Package tui provides an interactive terminal interface for asking
// questions against the knowledge corpus.
package tui

import (
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Retrieval answers queries.
	Retrieval driving.RetrievalService

	// Status reports on the corpus store. Optional.
	Status driving.StatusService

	// TopK is the number of passages requested per query.
	// Zero selects the service default.
	TopK int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
