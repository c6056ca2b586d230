package domain

import (
	"errors"
	"time"
)

// SourceFailure records why a source was skipped during ingestion.
type SourceFailure struct {
	Source string
	Err    error
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Sources is the number of sources attempted.
	Sources int

	// Ingested is the number of sources that contributed chunks.
	Ingested int

	// Chunks is the number of chunks written.
	Chunks int

	// Dimensions is the embedding length of the written store.
	Dimensions int

	// Failures lists skipped sources in input order.
	Failures []SourceFailure

	// StorePath is where the snapshot was written.
	StorePath string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Skipped returns the number of sources that were skipped.
func (r *IngestReport) Skipped() int {
	return len(r.Failures)
}

// Err joins every per-source failure, or returns nil when none occurred.
func (r *IngestReport) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}
