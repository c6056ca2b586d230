package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
	"github.com/nuxway/knowledge-rag/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// DefaultMinContent is the minimum normalised length, in characters,
// for a source to be kept.
const DefaultMinContent = 200

// IngestionService builds a corpus snapshot from a list of sources.
type IngestionService struct {
	fetcher    driven.Fetcher
	registry   driven.NormaliserRegistry
	pipeline   driven.PostProcessorPipeline
	embedder   driven.EmbeddingService
	store      driven.CorpusStore
	minContent int
}

// NewIngestionService creates a new ingestion service.
// A negative minContent selects DefaultMinContent; zero disables the check.
func NewIngestionService(
	fetcher driven.Fetcher,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	store driven.CorpusStore,
	minContent int,
) *IngestionService {
	if minContent < 0 {
		minContent = DefaultMinContent
	}
	return &IngestionService{
		fetcher:    fetcher,
		registry:   registry,
		pipeline:   pipeline,
		embedder:   embedder,
		store:      store,
		minContent: minContent,
	}
}

// Ingest fetches, normalises and chunks each source in order, embeds every
// chunk in one batch pass, then replaces the stored snapshot.
//
// A failing source is recorded in the report and skipped. Embedding or
// storage failures abort the run and leave the previous snapshot in place,
// as does a run that produced no chunks at all.
func (s *IngestionService) Ingest(ctx context.Context, sources []domain.Source) (*domain.IngestReport, error) {
	start := time.Now()
	report := &domain.IngestReport{
		RunID:     uuid.NewString(),
		Sources:   len(sources),
		StorePath: s.store.Path(),
	}
	defer func() { report.Duration = time.Since(start) }()

	logger.Section("Ingestion")
	logger.Info("Run %s: %d sources -> %s", report.RunID, len(sources), report.StorePath)

	if s.embedder == nil {
		return report, fmt.Errorf("%w: no embedding service configured", domain.ErrConfiguration)
	}

	chunks, err := s.collect(ctx, sources, report)
	if err != nil {
		return report, err
	}
	if len(chunks) == 0 {
		if cause := report.Err(); cause != nil {
			return report, fmt.Errorf("%w: no content from %d sources: %w", domain.ErrInvalidInput, len(sources), cause)
		}
		return report, fmt.Errorf("%w: no content from %d sources", domain.ErrInvalidInput, len(sources))
	}

	logger.Section("Embedding")
	logger.Info("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return report, fmt.Errorf("embed chunks: %w: %d vectors for %d chunks",
			domain.ErrUpstream, len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := s.store.Save(ctx, chunks); err != nil {
		return report, fmt.Errorf("save store: %w", err)
	}

	report.Chunks = len(chunks)
	report.Dimensions = len(vectors[0])
	logger.Info("Run %s complete: %d chunks from %d/%d sources, %d skipped",
		report.RunID, report.Chunks, report.Ingested, report.Sources, report.Skipped())

	return report, nil
}

// collect folds over sources, accumulating chunks and recording each
// per-source failure. Only cancellation stops the fold early.
func (s *IngestionService) collect(
	ctx context.Context, sources []domain.Source, report *domain.IngestReport,
) ([]domain.Chunk, error) {
	var all []domain.Chunk

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingestion cancelled: %w", err)
		}

		chunks, err := s.ingestSource(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, fmt.Errorf("ingestion cancelled: %w", err)
			}
			logger.Warn("Skipping %s: %v", src.Location, err)
			report.Failures = append(report.Failures, domain.SourceFailure{Source: src.Location, Err: err})
			continue
		}

		logger.Debug("%s: %d chunks", src.Location, len(chunks))
		report.Ingested++
		all = append(all, chunks...)
	}

	return all, nil
}

// ingestSource turns one source into chunks without embeddings.
func (s *IngestionService) ingestSource(ctx context.Context, src domain.Source) ([]domain.Chunk, error) {
	raw, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Debug("Fetched %s (%s, %d bytes)", src.Location, raw.MIMEType, len(raw.Content))

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, &domain.FetchError{Source: src.Location, Err: fmt.Errorf("normalise: %w", err)}
	}

	doc := result.Document
	doc.Source = src.Location

	if n := utf8.RuneCountInString(strings.TrimSpace(doc.Content)); n < s.minContent {
		return nil, fmt.Errorf("%w: %d characters, minimum %d", domain.ErrContentTooShort, n, s.minContent)
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks produced", domain.ErrContentTooShort)
	}
	return chunks, nil
}
