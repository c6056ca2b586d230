// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/nuxway/knowledge-rag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/nuxway/knowledge-rag/internal/adapters/driven/embedding/openai"
	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service for the configured provider.
// A missing OpenAI key is not an error here: the service is still built and
// fails each call with domain.ErrConfiguration, so retrieval can degrade.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.ProviderOpenAI, "":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Timeout:           settings.Timeout,
			BatchSize:         settings.BatchSize,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			Timeout:   settings.Timeout,
			BatchSize: settings.BatchSize,
		}), nil

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfiguration, settings.Provider)
	}
}

// ValidateEmbeddingService pings the service with a bounded timeout.
func ValidateEmbeddingService(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		return fmt.Errorf("%w: no embedding service", domain.ErrConfiguration)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service %s unreachable: %w", svc.ModelName(), err)
	}
	return nil
}
