//go:build !cgo
// +build !cgo

package infer

// ONNX Runtime needs CGO. Without it the constructors fail and callers fall
// back to the lexicon classifier or the deterministic embedder.

import (
	"context"
	"errors"
)

var errNoCGO = errors.New("onnx models require a CGO build with the onnxruntime library")

type ONNXEmbedder struct{}

func NewONNXEmbedder(modelPath, modelName string, dimensions, maxTokens, cacheSize int) (*ONNXEmbedder, error) {
	return nil, errNoCGO
}

func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errNoCGO
}

func (e *ONNXEmbedder) Dimensions() int { return 0 }

func (e *ONNXEmbedder) Model() string { return "" }

func (e *ONNXEmbedder) Close() error { return nil }

type ONNXSentimentClassifier struct{}

func NewONNXSentimentClassifier(modelPath string, maxTokens int) (*ONNXSentimentClassifier, error) {
	return nil, errNoCGO
}

func (c *ONNXSentimentClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	return Sentiment{}, errNoCGO
}

func (c *ONNXSentimentClassifier) Close() error { return nil }
