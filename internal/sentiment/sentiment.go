// Package sentiment classifies financial text as positive, negative or
// neutral with a confidence score.
package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsight/copilot/internal/infer"
)

// DefaultMaxWords bounds classifier input; longer text is cut off without
// regard for sentence boundaries.
const DefaultMaxWords = 510

var ErrEmptyText = errors.New("no text to classify")

type Service struct {
	classifier infer.SentimentClassifier
	maxWords   int
}

func NewService(classifier infer.SentimentClassifier, maxWords int) *Service {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Service{classifier: classifier, maxWords: maxWords}
}

// Classify returns exactly one label with its confidence. A failed model
// call aborts only this request.
func (s *Service) Classify(ctx context.Context, text string) (infer.Sentiment, error) {
	if text == "" {
		return infer.Sentiment{}, ErrEmptyText
	}

	result, err := s.classifier.Classify(ctx, infer.TruncateWords(text, s.maxWords))
	if err != nil {
		return infer.Sentiment{}, fmt.Errorf("classify sentiment: %w", err)
	}
	return result, nil
}
