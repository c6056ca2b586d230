package driven

import "context"

// VectorIndex ranks stored vectors against a query vector.
type VectorIndex interface {
	// Search returns at most k hits ordered by descending similarity.
	// Equal scores keep storage order.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of searchable (non-degenerate) vectors.
	Len() int
}

// VectorHit represents a vector search result.
type VectorHit struct {
	// Position is the chunk's index in the corpus.
	Position int

	// Similarity is the cosine similarity to the query.
	Similarity float64
}
