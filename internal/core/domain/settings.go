package domain

import "time"

// EmbeddingProvider names an embedding backend.
type EmbeddingProvider string

const (
	// ProviderOpenAI is the OpenAI /v1/embeddings API or a compatible server.
	ProviderOpenAI EmbeddingProvider = "openai"

	// ProviderOllama is a local Ollama server.
	ProviderOllama EmbeddingProvider = "ollama"
)

// EmbeddingSettings selects and configures the embedding backend.
type EmbeddingSettings struct {
	Provider EmbeddingProvider
	Model    string
	BaseURL  string

	// APIKey is the bearer credential. Only OpenAI requires one.
	APIKey string

	Timeout           time.Duration
	BatchSize         int
	RequestsPerSecond float64
}

// HasCredential reports whether the provider's credential requirement is met.
func (s EmbeddingSettings) HasCredential() bool {
	if s.Provider == ProviderOllama {
		return true
	}
	return s.APIKey != ""
}
