//go:build cgo
// +build cgo

package infer

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXEmbedder runs a sentence-embedding model through ONNX Runtime.
// Sessions are not safe for concurrent Run calls, so a mutex serializes
// inference; tensors are allocated once and reused.
type ONNXEmbedder struct {
	session    *ort.AdvancedSession
	modelName  string
	dimensions int
	maxTokens  int
	tokenizer  Tokenizer
	cache      *embedCache

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	output        *ort.Tensor[float32]
	mu            sync.Mutex
}

// NewONNXEmbedder loads the model at modelPath. dimensions must match the
// model's output width; maxTokens its input length.
func NewONNXEmbedder(modelPath, modelName string, dimensions, maxTokens, cacheSize int) (*ONNXEmbedder, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	tok := &WordTokenizer{}
	ids, mask, types := tok.Tokenize("", maxTokens)

	shape := ort.NewShape(1, int64(maxTokens))
	inputIDs, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	attentionMask, err := ort.NewTensor(shape, mask)
	if err != nil {
		inputIDs.Destroy()
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	tokenTypeIDs, err := ort.NewTensor(shape, types)
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	output, err := ort.NewTensor(ort.NewShape(1, int64(dimensions)), make([]float32, dimensions))
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		tokenTypeIDs.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"output"},
		[]ort.ArbitraryTensor{inputIDs, attentionMask, tokenTypeIDs},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		tokenTypeIDs.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXEmbedder{
		session:       session,
		modelName:     modelName,
		dimensions:    dimensions,
		maxTokens:     maxTokens,
		tokenizer:     tok,
		cache:         newEmbedCache(cacheSize),
		inputIDs:      inputIDs,
		attentionMask: attentionMask,
		tokenTypeIDs:  tokenTypeIDs,
		output:        output,
	}, nil
}

func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.cache.get(text); ok {
		return vec, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ids, mask, types := e.tokenizer.Tokenize(text, e.maxTokens)
	copy(e.inputIDs.GetData(), ids)
	copy(e.attentionMask.GetData(), mask)
	copy(e.tokenTypeIDs.GetData(), types)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: embed: %v", ErrInference, err)
	}

	vec := make([]float32, e.dimensions)
	copy(vec, e.output.GetData()[:e.dimensions])
	normalizeL2(vec)

	e.cache.set(text, vec)
	return vec, nil
}

func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

func (e *ONNXEmbedder) Dimensions() int { return e.dimensions }

func (e *ONNXEmbedder) Model() string { return e.modelName }

func (e *ONNXEmbedder) Close() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{e.inputIDs, e.attentionMask, e.tokenTypeIDs} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
	e.inputIDs, e.attentionMask, e.tokenTypeIDs = nil, nil, nil
	return err
}
