// Package flat provides an exact, brute-force VectorIndex over a loaded corpus.
// Corpus embeddings are unit-length, so cosine similarity is a dot product.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index scores every stored vector against the query.
// It never mutates the corpus and is safe for concurrent use.
type Index struct {
	vectors [][]float32
	dims    int

	// live holds the positions of non-degenerate vectors, in storage order.
	live []int
}

// New builds an index over the corpus embeddings. Zero vectors are kept out
// of the searchable set since they have no direction to compare.
func New(corpus *domain.Corpus) *Index {
	idx := &Index{}
	if corpus == nil {
		return idx
	}

	idx.vectors = corpus.Embeddings
	idx.dims = corpus.Dimensions
	idx.live = make([]int, 0, len(corpus.Embeddings))
	for i, v := range corpus.Embeddings {
		if !isZero(v) {
			idx.live = append(idx.live, i)
		}
	}
	return idx
}

// Len returns the number of searchable vectors.
func (x *Index) Len() int {
	return len(x.live)
}

// Search returns the top k positions by descending dot product. Equal
// scores keep storage order. k <= 0 and an empty index yield no hits.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 || len(x.live) == 0 {
		return nil, nil
	}
	if len(query) != x.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(query), x.dims)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := normalize(query)

	hits := make([]driven.VectorHit, len(x.live))
	for i, pos := range x.live {
		hits[i] = driven.VectorHit{Position: pos, Similarity: dot(q, x.vectors[pos])}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize scales the query to unit length so scores are true cosines
// even when the embedding service returns unnormalised vectors.
// A zero query stays zero and scores 0 against everything.
func normalize(v []float32) []float32 {
	n := dot(v, v)
	if n == 0 {
		return v
	}
	norm := math.Sqrt(n)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
