// Package infer runs the pretrained local models: the sentence embedder and
// the financial sentiment classifier. Both are exposed as interfaces so the
// real ONNX-backed implementations can be swapped for deterministic doubles
// in tests.
package infer

import (
	"context"
	"errors"
)

// ErrInference marks a failed forward pass through a local model. Callers
// abort the single request that triggered it; the models stay usable.
var ErrInference = errors.New("model inference failed")

// Embedder produces fixed-length vector embeddings for text. All vectors
// from one Embedder have the same dimensionality; similarity scores are only
// comparable between vectors from the same model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Model() string
	Close() error
}

// Sentiment labels. The classifier returns exactly one of these.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Sentiment is a classified label with its confidence in [0,1].
type Sentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// SentimentClassifier wraps a pretrained three-class financial sentiment
// model. No training or fine-tuning happens here.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
	Close() error
}
