package domain

// StoreVersion is the only snapshot format version understood.
const StoreVersion = 1

// Corpus is the in-memory search view of a corpus store.
// Embeddings are unit-normalised at load time; a Corpus is read-only
// once built and may be shared across goroutines.
type Corpus struct {
	// Texts holds chunk text in storage order.
	Texts []string

	// Sources holds the provenance of each chunk, parallel to Texts.
	Sources []string

	// Embeddings holds unit-length vectors, parallel to Texts.
	// Degenerate (zero) vectors remain all zeros.
	Embeddings [][]float32

	// Dimensions is the shared embedding length, 0 for an empty corpus.
	Dimensions int
}

// Len returns the number of chunks.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Texts)
}

// Chunk returns the i-th chunk.
func (c *Corpus) Chunk(i int) Chunk {
	return Chunk{Source: c.Sources[i], Text: c.Texts[i], Embedding: c.Embeddings[i]}
}
