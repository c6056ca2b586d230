// Package config loads runtime configuration for the knowledge CLI.
//
// Values are resolved in order, later sources winning:
//
//  1. built-in defaults
//  2. an optional config file (.toml, .yaml or .yml)
//  3. a .env file in the working directory (never overrides the real environment)
//  4. environment variables
//
// The result is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// Environment variable names.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAIModel   = "OPENAI_EMBED_MODEL"
	EnvProvider      = "EMBEDDING_PROVIDER"
	EnvOllamaBaseURL = "OLLAMA_BASE_URL"
	EnvOllamaModel   = "OLLAMA_EMBED_MODEL"
	EnvStorePath     = "KNOWLEDGE_STORE_PATH"
	EnvURLs          = "KNOWLEDGE_URLS"
	EnvFiles         = "KNOWLEDGE_FILES"
	EnvChunkSize     = "KNOWLEDGE_CHUNK_SIZE"
	EnvChunkOverlap  = "KNOWLEDGE_CHUNK_OVERLAP"
	EnvMinContent    = "KNOWLEDGE_MIN_CONTENT"
	EnvBatchSize     = "KNOWLEDGE_BATCH_SIZE"
	EnvTopK          = "KNOWLEDGE_TOP_K"
	EnvFetchTimeout  = "KNOWLEDGE_FETCH_TIMEOUT"
	EnvEmbedTimeout  = "KNOWLEDGE_EMBED_TIMEOUT"
	EnvEmbedRate     = "KNOWLEDGE_EMBED_RPS"
	EnvHTTPAddr      = "KNOWLEDGE_HTTP_ADDR"
	EnvMCPPort       = "KNOWLEDGE_MCP_PORT"
)

const defaultOpenAIModel = "text-embedding-3-small"

// DefaultURLs are ingested when no source list is configured.
var DefaultURLs = []string{
	"https://nuxway.net/",
	"https://nuxway.net/quienes-somos",
	"https://nuxway.net/soluciones",
	"https://nuxway.net/productos",
	"https://nuxway.services/",
}

// Config is the complete runtime configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding" yaml:"embedding"`
	Store     StoreConfig     `toml:"store" yaml:"store"`
	Ingest    IngestConfig    `toml:"ingest" yaml:"ingest"`
	Retrieval RetrievalConfig `toml:"retrieval" yaml:"retrieval"`
	Server    ServerConfig    `toml:"server" yaml:"server"`
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	Provider string `toml:"provider" yaml:"provider" validate:"omitempty,oneof=openai ollama"`

	// Model overrides the provider's default model.
	Model string `toml:"model" yaml:"model"`

	// APIKey may be empty: retrieval then degrades and ingestion fails.
	APIKey string `toml:"api_key" yaml:"api_key"`

	BaseURL       string   `toml:"base_url" yaml:"base_url" validate:"omitempty,url"`
	OllamaBaseURL string   `toml:"ollama_base_url" yaml:"ollama_base_url" validate:"omitempty,url"`
	OllamaModel   string   `toml:"ollama_model" yaml:"ollama_model"`
	Timeout       Duration `toml:"timeout" yaml:"timeout" validate:"gt=0"`
	BatchSize     int      `toml:"batch_size" yaml:"batch_size" validate:"min=1"`

	// RequestsPerSecond paces embedding calls; 0 selects the adapter
	// default and a negative value disables pacing.
	RequestsPerSecond float64 `toml:"requests_per_second" yaml:"requests_per_second"`
}

// StoreConfig locates the corpus snapshot.
type StoreConfig struct {
	Path string `toml:"path" yaml:"path" validate:"required"`
}

// IngestConfig controls the ingestion pipeline.
type IngestConfig struct {
	URLs         []string `toml:"urls" yaml:"urls"`
	Files        []string `toml:"files" yaml:"files"`
	ChunkSize    int      `toml:"chunk_size" yaml:"chunk_size" validate:"min=1"`
	ChunkOverlap int      `toml:"chunk_overlap" yaml:"chunk_overlap" validate:"min=0"`
	MinContent   int      `toml:"min_content" yaml:"min_content" validate:"min=0"`
	FetchTimeout Duration `toml:"fetch_timeout" yaml:"fetch_timeout" validate:"gt=0"`
}

// RetrievalConfig controls query defaults.
type RetrievalConfig struct {
	TopK int `toml:"top_k" yaml:"top_k" validate:"min=1"`
}

// ServerConfig configures the HTTP and MCP listeners.
type ServerConfig struct {
	Addr    string `toml:"addr" yaml:"addr" validate:"required"`
	MCPPort int    `toml:"mcp_port" yaml:"mcp_port" validate:"min=0,max=65535"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  string(domain.ProviderOpenAI),
			Timeout:   Duration(60 * time.Second),
			BatchSize: 64,
		},
		Store: StoreConfig{
			Path: "knowledge_store.json",
		},
		Ingest: IngestConfig{
			ChunkSize:    1200,
			ChunkOverlap: 200,
			MinContent:   200,
			FetchTimeout: Duration(30 * time.Second),
		},
		Retrieval: RetrievalConfig{
			TopK: domain.DefaultTopK,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load resolves configuration from defaults, the optional file at path,
// ./.env and the environment.
func Load(path string) (*Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: load %s: %w", domain.ErrConfiguration, envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile overlays a TOML or YAML file onto cfg.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config: %w", domain.ErrConfiguration, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: unsupported config format %q", domain.ErrConfiguration, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrConfiguration, path, err)
	}
	return nil
}

// applyEnv overlays environment variables. Empty variables are ignored.
func (c *Config) applyEnv() error {
	setString(&c.Embedding.APIKey, EnvOpenAIKey)
	setString(&c.Embedding.BaseURL, EnvOpenAIBaseURL)
	setString(&c.Embedding.Model, EnvOpenAIModel)
	setString(&c.Embedding.Provider, EnvProvider)
	setString(&c.Embedding.OllamaBaseURL, EnvOllamaBaseURL)
	setString(&c.Embedding.OllamaModel, EnvOllamaModel)
	setString(&c.Store.Path, EnvStorePath)
	setString(&c.Server.Addr, EnvHTTPAddr)

	if v := os.Getenv(EnvURLs); v != "" {
		c.Ingest.URLs = domain.SplitList(v)
	}
	if v := os.Getenv(EnvFiles); v != "" {
		c.Ingest.Files = domain.SplitList(v)
	}

	c.Embedding.Provider = strings.ToLower(strings.TrimSpace(c.Embedding.Provider))

	return errors.Join(
		setInt(&c.Ingest.ChunkSize, EnvChunkSize),
		setInt(&c.Ingest.ChunkOverlap, EnvChunkOverlap),
		setInt(&c.Ingest.MinContent, EnvMinContent),
		setInt(&c.Embedding.BatchSize, EnvBatchSize),
		setInt(&c.Retrieval.TopK, EnvTopK),
		setInt(&c.Server.MCPPort, EnvMCPPort),
		setDuration(&c.Ingest.FetchTimeout, EnvFetchTimeout),
		setDuration(&c.Embedding.Timeout, EnvEmbedTimeout),
		setFloat(&c.Embedding.RequestsPerSecond, EnvEmbedRate),
	)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	return nil
}

// Sources returns the configured ingestion sources: URLs first, then files.
// When neither list is set the default URLs are used.
func (c *Config) Sources() ([]domain.Source, error) {
	locations := make([]string, 0, len(c.Ingest.URLs)+len(c.Ingest.Files))
	locations = append(locations, c.Ingest.URLs...)
	locations = append(locations, c.Ingest.Files...)
	if len(locations) == 0 {
		locations = append(locations, DefaultURLs...)
	}
	return domain.ParseSources(locations)
}

// EmbeddingSettings returns the settings for the selected provider.
func (c *Config) EmbeddingSettings() domain.EmbeddingSettings {
	e := c.Embedding
	settings := domain.EmbeddingSettings{
		Provider:          domain.EmbeddingProvider(e.Provider),
		APIKey:            e.APIKey,
		Timeout:           e.Timeout.Std(),
		BatchSize:         e.BatchSize,
		RequestsPerSecond: e.RequestsPerSecond,
	}

	switch settings.Provider {
	case domain.ProviderOllama:
		settings.BaseURL = e.OllamaBaseURL
		settings.Model = e.OllamaModel
	default:
		settings.Provider = domain.ProviderOpenAI
		settings.BaseURL = e.BaseURL
		settings.Model = e.Model
		if settings.Model == "" {
			settings.Model = defaultOpenAIModel
		}
	}
	return settings
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", domain.ErrConfiguration, key, v)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", domain.ErrConfiguration, key, v)
	}
	*dst = f
	return nil
}

// setDuration accepts Go durations ("45s") or plain seconds ("45").
func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := parseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %w", domain.ErrConfiguration, key, v, err)
	}
	*dst = d
	return nil
}
