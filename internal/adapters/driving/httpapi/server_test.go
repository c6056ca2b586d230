package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

// mockRetrieval records the last call and returns canned results.
type mockRetrieval struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastK     int
}

func (m *mockRetrieval) Retrieve(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastK = k
	return m.results, m.err
}

type mockStatus struct {
	status domain.StoreStatus
}

func (m *mockStatus) StoreStatus(_ context.Context) domain.StoreStatus { return m.status }

type mockCache struct {
	invalidations int
}

func (m *mockCache) Invalidate() { m.invalidations++ }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	status := &mockStatus{status: domain.StoreStatus{
		Path: "knowledge_store.json", State: domain.StoreReady, Chunks: 42, Sources: 5, Dimensions: 1536,
	}}
	h := NewRouter(Deps{Status: status})

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Store)
	assert.Equal(t, domain.StoreReady, resp.Store.State)
	assert.Equal(t, 42, resp.Store.Chunks)
	assert.NotEmpty(t, resp.Timestamp)

	rec = do(t, NewRouter(Deps{}), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "store")
}

func TestRetrieve_Success(t *testing.T) {
	retrieval := &mockRetrieval{results: []domain.SearchResult{
		{Score: 0.91, Source: "https://nuxway.net/soluciones/", Text: "Telefonía IP & centrales <Grandstream>"},
	}}
	h := NewRouter(Deps{Retrieval: retrieval})

	rec := do(t, h, http.MethodPost, "/v1/retrieve", `{"query":"  centrales IP ","k":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "Telefonía IP & centrales <Grandstream>")

	var resp RetrieveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://nuxway.net/soluciones/", resp.Results[0].Source)
	assert.InDelta(t, 0.91, resp.Results[0].Score, 1e-9)

	assert.Equal(t, "centrales IP", retrieval.lastQuery)
	assert.Equal(t, 3, retrieval.lastK)
}

func TestRetrieve_LargeKPassedThrough(t *testing.T) {
	retrieval := &mockRetrieval{results: []domain.SearchResult{
		{Score: 0.8, Source: "a", Text: "only passage"},
	}}
	h := NewRouter(Deps{Retrieval: retrieval})

	rec := do(t, h, http.MethodPost, "/v1/retrieve", `{"query":"hola","k":100000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100000, retrieval.lastK)

	var resp RetrieveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 1)
}

func TestRetrieve_EmptyResultsEncodeAsArray(t *testing.T) {
	h := NewRouter(Deps{Retrieval: &mockRetrieval{results: []domain.SearchResult{}}})

	rec := do(t, h, http.MethodPost, "/v1/retrieve", `{"query":"hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestRetrieve_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"invalid json", `{"query":`, ""},
		{"unknown field", `{"query":"a","limit":3}`, ""},
		{"missing query", `{"k":3}`, "query"},
		{"blank query", `{"query":"   "}`, "query"},
		{"negative k", `{"query":"a","k":-1}`, "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(Deps{Retrieval: &mockRetrieval{}})

			rec := do(t, h, http.MethodPost, "/v1/retrieve", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "bad_request", resp.Error)
			if tt.field != "" {
				assert.Contains(t, resp.Fields, tt.field)
			}
		})
	}
}

func TestRetrieve_CorruptStore(t *testing.T) {
	err := &domain.CorruptStoreError{Path: "store.json", Reason: "invalid JSON"}
	h := NewRouter(Deps{Retrieval: &mockRetrieval{err: err}})

	rec := do(t, h, http.MethodPost, "/v1/retrieve", `{"query":"hola"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "corrupt_store", resp.Error)
}

func TestRetrieve_InternalError(t *testing.T) {
	h := NewRouter(Deps{Retrieval: &mockRetrieval{err: errors.New("boom")}})

	rec := do(t, h, http.MethodPost, "/v1/retrieve", `{"query":"hola"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRetrieve_NotConfigured(t *testing.T) {
	rec := do(t, NewRouter(Deps{}), http.MethodPost, "/v1/retrieve", `{"query":"hola"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInvalidate(t *testing.T) {
	cache := &mockCache{}
	h := NewRouter(Deps{Cache: cache})

	rec := do(t, h, http.MethodPost, "/v1/cache/invalidate", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, cache.invalidations)

	rec = do(t, NewRouter(Deps{}), http.MethodPost, "/v1/cache/invalidate", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	h := NewRouter(Deps{})

	rec := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"endpoint not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/v1/retrieve", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(Deps{})
	req := httptest.NewRequest(http.MethodOptions, "/v1/retrieve", nil)
	req.Header.Set("Origin", "https://nuxway.net")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://nuxway.net", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(ln.Addr().String(), NewRouter(Deps{}))
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
