//go:build cgo
// +build cgo

package infer

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// sentimentLabels is the output order of the pretrained financial sentiment
// model (FinBERT convention: logit 0 = positive, 1 = negative, 2 = neutral).
var sentimentLabels = []string{LabelPositive, LabelNegative, LabelNeutral}

// ONNXSentimentClassifier runs a three-class financial sentiment model
// through ONNX Runtime. Inputs longer than the model's token limit are
// truncated with a plain cutoff.
type ONNXSentimentClassifier struct {
	session   *ort.AdvancedSession
	maxTokens int
	tokenizer Tokenizer

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	logits        *ort.Tensor[float32]
	mu            sync.Mutex
}

func NewONNXSentimentClassifier(modelPath string, maxTokens int) (*ONNXSentimentClassifier, error) {
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
	logits, err := ort.NewTensor(ort.NewShape(1, int64(len(sentimentLabels))), make([]float32, len(sentimentLabels)))
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		tokenTypeIDs.Destroy()
		return nil, fmt.Errorf("create logits tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		[]ort.ArbitraryTensor{inputIDs, attentionMask, tokenTypeIDs},
		[]ort.ArbitraryTensor{logits},
		nil,
	)
	if err != nil {
		inputIDs.Destroy()
		attentionMask.Destroy()
		tokenTypeIDs.Destroy()
		logits.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXSentimentClassifier{
		session:       session,
		maxTokens:     maxTokens,
		tokenizer:     tok,
		inputIDs:      inputIDs,
		attentionMask: attentionMask,
		tokenTypeIDs:  tokenTypeIDs,
		logits:        logits,
	}, nil
}

func (c *ONNXSentimentClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text = TruncateWords(text, c.maxTokens-2) // room for [CLS] and [SEP]
	ids, mask, types := c.tokenizer.Tokenize(text, c.maxTokens)
	copy(c.inputIDs.GetData(), ids)
	copy(c.attentionMask.GetData(), mask)
	copy(c.tokenTypeIDs.GetData(), types)

	if err := c.session.Run(); err != nil {
		return Sentiment{}, fmt.Errorf("%w: sentiment: %v", ErrInference, err)
	}

	probs := softmax(c.logits.GetData())
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}

	return Sentiment{Label: sentimentLabels[best], Confidence: probs[best]}, nil
}

func (c *ONNXSentimentClassifier) Close() error {
	var err error
	if c.session != nil {
		err = c.session.Destroy()
		c.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{c.inputIDs, c.attentionMask, c.tokenTypeIDs} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if c.logits != nil {
		_ = c.logits.Destroy()
		c.logits = nil
	}
	c.inputIDs, c.attentionMask, c.tokenTypeIDs = nil, nil, nil
	return err
}
