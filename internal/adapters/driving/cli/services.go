package cli

import (
	"fmt"

	"github.com/nuxway/knowledge-rag/internal/adapters/driven/ai"
	"github.com/nuxway/knowledge-rag/internal/adapters/driven/storage/jsonfile"
	"github.com/nuxway/knowledge-rag/internal/adapters/driven/vector/flat"
	"github.com/nuxway/knowledge-rag/internal/config"
	"github.com/nuxway/knowledge-rag/internal/connectors"
	"github.com/nuxway/knowledge-rag/internal/connectors/web"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
	"github.com/nuxway/knowledge-rag/internal/core/services"
	"github.com/nuxway/knowledge-rag/internal/normalisers"
	"github.com/nuxway/knowledge-rag/internal/postprocessors"
)

// Services bundles everything the commands drive.
type Services struct {
	Config  *config.Config
	Sources []domain.Source

	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Cache     driving.CacheInvalidator
	Status    driving.StatusService

	// Embedding is the configured embedding backend, used by doctor.
	Embedding driven.EmbeddingService
}

// active is the bundle in use; tests replace it with SetServices.
var active *Services

// SetServices injects a pre-built bundle.
func SetServices(s *Services) {
	active = s
}

// NewServices wires the adapters and core services for cfg.
func NewServices(cfg *config.Config) (*Services, error) {
	sources, err := cfg.Sources()
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}

	embedder, err := ai.CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		return nil, err
	}

	store := jsonfile.New(cfg.Store.Path)
	cache := services.NewCorpusCache(store, func(c *domain.Corpus) driven.VectorIndex {
		return flat.New(c)
	})

	ingestion := services.NewIngestionService(
		connectors.NewDefaultDispatcher(web.Config{Timeout: cfg.Ingest.FetchTimeout.Std()}),
		normalisers.NewDefaultRegistry(),
		postprocessors.NewChunkingPipeline(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		embedder,
		store,
		cfg.Ingest.MinContent,
	)

	return &Services{
		Config:    cfg,
		Sources:   sources,
		Ingestion: ingestion,
		Retrieval: services.NewRetrievalService(embedder, cache, cfg.Retrieval.TopK),
		Cache:     cache,
		Status:    services.NewStatusService(store),
		Embedding: embedder,
	}, nil
}

// loadServices returns the active bundle, building it from the config file
// and environment on first use.
func loadServices() (*Services, error) {
	if active != nil {
		return active, nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	s, err := NewServices(cfg)
	if err != nil {
		return nil, err
	}
	active = s
	return active, nil
}

func closeServices() error {
	if active == nil || active.Embedding == nil {
		return nil
	}
	return active.Embedding.Close()
}
