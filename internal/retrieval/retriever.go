// Package retrieval ranks corpus chunks against a query by cosine
// similarity of their embeddings.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/finsight/copilot/internal/corpus"
	"github.com/finsight/copilot/internal/infer"
)

const DefaultTopK = 5

type Options struct {
	TopK     int     // results to return; DefaultTopK when <= 0
	MinScore float64 // when > 0, drop results scoring below this
}

// Result pairs a chunk with its similarity to the query, in [-1, 1].
type Result struct {
	Chunk corpus.Chunk `json:"chunk"`
	Score float64      `json:"score"`
}

type Retriever struct {
	store    *corpus.Store
	embedder infer.Embedder
}

func NewRetriever(store *corpus.Store, embedder infer.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve embeds the query and returns the top-k chunks by cosine
// similarity, descending, ties broken by original chunk order. An empty
// corpus yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts Options) ([]Result, error) {
	chunks := r.store.Snapshot()
	if len(chunks) == 0 {
		return nil, nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Result, 0, len(chunks))
	for _, c := range chunks {
		score := Cosine(queryVec, c.Embedding)
		if opts.MinScore > 0 && score < opts.MinScore {
			continue
		}
		results = append(results, Result{Chunk: c, Score: score})
	}

	// Stable keeps insertion order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	k := opts.TopK
	if k <= 0 {
		k = DefaultTopK
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Cosine returns the cosine similarity of a and b: the dot product divided
// by the product of magnitudes. A zero-magnitude vector or a length
// mismatch scores 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
