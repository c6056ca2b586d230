package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

func TestNormalise_PassThrough(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"simple", "Hello, world"},
		{"keeps whitespace", "line one\n\n\n\nline    two\t\t"},
		{"keeps markup characters", "<b>not html</b>"},
		{"unicode", "Precios en bolivianos: Bs. 1.200 — teléfono"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawDocument{
				Source:   "catalog.txt",
				URI:      "/data/catalog.txt",
				MIMEType: "text/plain",
				Content:  []byte(tt.content),
			}

			result, err := New().Normalise(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tt.content, result.Document.Content)
			assert.Equal(t, "catalog.txt", result.Document.Source)
			assert.Equal(t, "catalog", result.Document.Title)
		})
	}
}

func TestNormalise_Nil(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
	assert.Contains(t, New().SupportedMIMETypes(), "text/plain")
}
