package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

var allEnv = []string{
	EnvOpenAIKey, EnvOpenAIBaseURL, EnvOpenAIModel, EnvProvider, EnvOllamaBaseURL, EnvOllamaModel,
	EnvStorePath, EnvURLs, EnvFiles, EnvChunkSize, EnvChunkOverlap, EnvMinContent, EnvBatchSize,
	EnvTopK, EnvFetchTimeout, EnvEmbedTimeout, EnvEmbedRate, EnvHTTPAddr, EnvMCPPort,
}

// clearEnv unsets every recognised variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load("", "")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Empty(t, cfg.Embedding.APIKey)
	assert.Equal(t, 60*time.Second, cfg.Embedding.Timeout.Std())
	assert.Equal(t, 64, cfg.Embedding.BatchSize)
	assert.Equal(t, "knowledge_store.json", cfg.Store.Path)
	assert.Equal(t, 1200, cfg.Ingest.ChunkSize)
	assert.Equal(t, 200, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, 200, cfg.Ingest.MinContent)
	assert.Equal(t, 30*time.Second, cfg.Ingest.FetchTimeout.Std())
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOpenAIKey, "sk-test")
	t.Setenv(EnvOpenAIModel, "text-embedding-3-large")
	t.Setenv(EnvStorePath, "/var/lib/knowledge/store.json")
	t.Setenv(EnvURLs, "https://nuxway.net/, https://nuxway.net/soluciones/")
	t.Setenv(EnvFiles, "catalog.txt")
	t.Setenv(EnvChunkSize, "800")
	t.Setenv(EnvChunkOverlap, "100")
	t.Setenv(EnvMinContent, "50")
	t.Setenv(EnvBatchSize, "16")
	t.Setenv(EnvTopK, "3")
	t.Setenv(EnvFetchTimeout, "10")
	t.Setenv(EnvEmbedTimeout, "90s")
	t.Setenv(EnvEmbedRate, "2.5")
	t.Setenv(EnvHTTPAddr, "127.0.0.1:9000")

	cfg, err := load("", "")
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, "/var/lib/knowledge/store.json", cfg.Store.Path)
	assert.Equal(t, []string{"https://nuxway.net/", "https://nuxway.net/soluciones/"}, cfg.Ingest.URLs)
	assert.Equal(t, []string{"catalog.txt"}, cfg.Ingest.Files)
	assert.Equal(t, 800, cfg.Ingest.ChunkSize)
	assert.Equal(t, 100, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, 50, cfg.Ingest.MinContent)
	assert.Equal(t, 16, cfg.Embedding.BatchSize)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 10*time.Second, cfg.Ingest.FetchTimeout.Std())
	assert.Equal(t, 90*time.Second, cfg.Embedding.Timeout.Std())
	assert.InDelta(t, 2.5, cfg.Embedding.RequestsPerSecond, 1e-9)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvChunkSize, "big"},
		{EnvChunkSize, "0"},
		{EnvTopK, "-1"},
		{EnvFetchTimeout, "soon"},
		{EnvEmbedRate, "fast"},
		{EnvProvider, "cohere"},
		{EnvOpenAIBaseURL, "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := load("", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "knowledge.toml", `
[embedding]
provider = "ollama"
ollama_base_url = "http://ollama:11434"
ollama_model = "all-minilm"
timeout = "45s"

[store]
path = "data/store.json"

[ingest]
urls = ["https://nuxway.net/"]
chunk_size = 600
chunk_overlap = 60

[retrieval]
top_k = 8
`)

	cfg, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, 45*time.Second, cfg.Embedding.Timeout.Std())
	assert.Equal(t, "data/store.json", cfg.Store.Path)
	assert.Equal(t, []string{"https://nuxway.net/"}, cfg.Ingest.URLs)
	assert.Equal(t, 600, cfg.Ingest.ChunkSize)
	assert.Equal(t, 60, cfg.Ingest.ChunkOverlap)
	assert.Equal(t, 8, cfg.Retrieval.TopK)
	// Untouched fields keep their defaults.
	assert.Equal(t, 200, cfg.Ingest.MinContent)

	settings := cfg.EmbeddingSettings()
	assert.Equal(t, domain.ProviderOllama, settings.Provider)
	assert.Equal(t, "http://ollama:11434", settings.BaseURL)
	assert.Equal(t, "all-minilm", settings.Model)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "knowledge.yaml", `
embedding:
  api_key: sk-from-file
  batch_size: 32
ingest:
  files:
    - catalog.txt
  fetch_timeout: 5s
server:
  addr: ":9090"
  mcp_port: 7000
`)

	cfg, err := load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "sk-from-file", cfg.Embedding.APIKey)
	assert.Equal(t, 32, cfg.Embedding.BatchSize)
	assert.Equal(t, []string{"catalog.txt"}, cfg.Ingest.Files)
	assert.Equal(t, 5*time.Second, cfg.Ingest.FetchTimeout.Std())
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 7000, cfg.Server.MCPPort)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "knowledge.yml", "store:\n  path: from-file.json\n")
	t.Setenv(EnvStorePath, "from-env.json")

	cfg, err := load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.Store.Path)
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)

	_, err := load(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = load(writeFile(t, "knowledge.ini", "a=b"), "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = load(writeFile(t, "bad.toml", "[[[not toml"), "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, ".env", "OPENAI_API_KEY=sk-dotenv\nKNOWLEDGE_TOP_K=7\n")
	t.Setenv(EnvTopK, "2")

	cfg, err := load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "sk-dotenv", cfg.Embedding.APIKey)
	// Real environment wins over .env.
	assert.Equal(t, 2, cfg.Retrieval.TopK)
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	clearEnv(t)

	_, err := load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestDefaultURLs(t *testing.T) {
	assert.Equal(t, []string{
		"https://nuxway.net/",
		"https://nuxway.net/quienes-somos",
		"https://nuxway.net/soluciones",
		"https://nuxway.net/productos",
		"https://nuxway.services/",
	}, DefaultURLs)
}

func TestSources(t *testing.T) {
	cfg := Default()

	srcs, err := cfg.Sources()
	require.NoError(t, err)
	require.Len(t, srcs, len(DefaultURLs))
	assert.Equal(t, domain.SourceURL, srcs[0].Kind)

	cfg.Ingest.URLs = []string{"https://nuxway.net/"}
	cfg.Ingest.Files = []string{"catalog.txt"}
	srcs, err = cfg.Sources()
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{
		{Kind: domain.SourceURL, Location: "https://nuxway.net/"},
		{Kind: domain.SourceFile, Location: "catalog.txt"},
	}, srcs)
}

func TestEmbeddingSettings_OpenAI(t *testing.T) {
	cfg := Default()
	cfg.Embedding.APIKey = "sk-test"
	cfg.Embedding.RequestsPerSecond = 3

	s := cfg.EmbeddingSettings()
	assert.Equal(t, domain.ProviderOpenAI, s.Provider)
	assert.Equal(t, "text-embedding-3-small", s.Model)
	assert.Equal(t, "sk-test", s.APIKey)
	assert.Equal(t, 60*time.Second, s.Timeout)
	assert.Equal(t, 64, s.BatchSize)
	assert.InDelta(t, 3.0, s.RequestsPerSecond, 1e-9)
	assert.True(t, s.HasCredential())
}

func TestDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"15", 15 * time.Second, false},
		{" 2s ", 2 * time.Second, false},
		{"later", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}

	text, err := Duration(45 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "45s", string(text))
}
