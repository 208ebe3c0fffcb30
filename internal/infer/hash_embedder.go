package infer

import (
	"context"
	"math"
)

// HashEmbedder is a deterministic embedder: the same text always maps to the
// same unit-length vector. It carries no semantics and exists so ingestion
// and retrieval can run without a model file (and in tests).
type HashEmbedder struct {
	dimensions int
}

func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &HashEmbedder{dimensions: dimensions}
}

func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := hashString(text)
	vec := make([]float32, e.dimensions)
	for i := range vec {
		vec[i] = float32(math.Sin(float64(h*(i+1)))*0.1 + 0.01)
	}
	normalizeL2(vec)
	return vec, nil
}

func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

func (e *HashEmbedder) Dimensions() int { return e.dimensions }

func (e *HashEmbedder) Model() string { return "hash" }

func (e *HashEmbedder) Close() error { return nil }
