package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

func resetRetrieveFlags(t *testing.T) {
	t.Cleanup(func() {
		retrieveK = 0
		retrieveJSON = false
		retrieveFull = false
	})
}

func TestRetrieveCmd_RequiresQuery(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "retrieve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestRetrieveCmd_HasTopFlag(t *testing.T) {
	flag := retrieveCmd.Flags().Lookup("top")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestRetrieveCmd_Table(t *testing.T) {
	resetRetrieveFlags(t)
	svc := setupTestServices(t)
	mock := svc.Retrieval.(*mockRetrieval)
	mock.results = []domain.SearchResult{
		{Score: 0.9123, Source: "https://nuxway.net/soluciones/", Text: "Centrales IP\n\npara empresas"},
		{Score: 0.5, Source: "catalog.txt", Text: strings.Repeat("x", previewRunes+20)},
	}

	out, err := execute(t, "retrieve", "-k", "2", "centrales", "ip")

	require.NoError(t, err)
	assert.Equal(t, "centrales ip", mock.query)
	assert.Equal(t, 2, mock.k)
	assert.Contains(t, out, "[1] 0.912  https://nuxway.net/soluciones/")
	assert.Contains(t, out, "    Centrales IP para empresas")
	assert.Contains(t, out, strings.Repeat("x", previewRunes)+"...")
}

func TestRetrieveCmd_Full(t *testing.T) {
	resetRetrieveFlags(t)
	svc := setupTestServices(t)
	long := strings.Repeat("y", previewRunes+20)
	svc.Retrieval.(*mockRetrieval).results = []domain.SearchResult{{Score: 0.5, Source: "a.txt", Text: long}}

	out, err := execute(t, "retrieve", "--full", "q")

	require.NoError(t, err)
	assert.Contains(t, out, long)
	assert.NotContains(t, out, "...")
}

func TestRetrieveCmd_NoContext(t *testing.T) {
	resetRetrieveFlags(t)
	setupTestServices(t)

	out, err := execute(t, "retrieve", "hola")

	require.NoError(t, err)
	assert.Contains(t, out, "No context available.")
}

func TestRetrieveCmd_JSON(t *testing.T) {
	resetRetrieveFlags(t)
	svc := setupTestServices(t)
	svc.Retrieval.(*mockRetrieval).results = []domain.SearchResult{
		{Score: 0.75, Source: "catalog.txt", Text: "UCM6300"},
	}

	out, err := execute(t, "retrieve", "--json", "ucm")

	require.NoError(t, err)
	assert.Contains(t, out, `"score": 0.75`)
	assert.Contains(t, out, `"source": "catalog.txt"`)
	assert.Contains(t, out, `"text": "UCM6300"`)
}

func TestRetrieveCmd_Error(t *testing.T) {
	resetRetrieveFlags(t)
	svc := setupTestServices(t)
	svc.Retrieval.(*mockRetrieval).err = &domain.CorruptStoreError{Path: "s.json", Reason: "invalid JSON", Err: errors.New("eof")}

	_, err := execute(t, "retrieve", "hola")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptStore)
	assert.Contains(t, err.Error(), "retrieval failed")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", preview("abc", 5))
	assert.Equal(t, "ñandú...", preview("ñandúes", 5))
}
