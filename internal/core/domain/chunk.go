package domain

import (
	"fmt"
	"strings"
)

// Chunk is a bounded fragment of source text paired with its embedding.
// Chunks are created during ingestion and never mutated afterwards.
type Chunk struct {
	// Source is the URL or file path the text came from.
	Source string

	// Text is the plain-text window.
	Text string

	// Embedding is the vector for Text. All chunks in one store
	// share the same dimensionality.
	Embedding []float32
}

// NewChunk builds a Chunk, rejecting an empty source or blank text.
// The embedding may be nil before the embedding pass has run.
func NewChunk(source, text string, embedding []float32) (Chunk, error) {
	if source == "" {
		return Chunk{}, fmt.Errorf("%w: chunk source is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return Chunk{}, fmt.Errorf("%w: chunk text is empty (source %s)", ErrInvalidInput, source)
	}
	return Chunk{Source: source, Text: text, Embedding: embedding}, nil
}

// Dimensions returns the embedding length.
func (c Chunk) Dimensions() int {
	return len(c.Embedding)
}
