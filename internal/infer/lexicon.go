package infer

import (
	"context"
	"strings"
)

// LexiconClassifier scores financial text against fixed keyword tables. It
// is the fallback when no sentiment model file is configured, and the
// implementation the tests exercise.
type LexiconClassifier struct {
	positive map[string]bool
	negative map[string]bool
}

func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		positive: wordSet(
			"profit", "profits", "profitable", "record", "growth", "gain",
			"gains", "beat", "beats", "surge", "surged", "rally", "rallied",
			"strong", "upgrade", "upgraded", "improved", "improvement",
			"exceeds", "exceeded", "outperform", "dividend", "recovery",
		),
		negative: wordSet(
			"loss", "losses", "fraud", "scandal", "decline", "declined",
			"drop", "dropped", "fall", "falls", "fell", "miss", "missed",
			"weak", "downgrade", "downgraded", "plunge", "plunged",
			"lawsuit", "fine", "fined", "bankruptcy", "default", "writedown",
			"hurting", "hurt", "crisis", "probe",
		),
	}
}

func (c *LexiconClassifier) Classify(ctx context.Context, text string) (Sentiment, error) {
	var pos, neg int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?'\"()")
		if c.positive[word] {
			pos++
		}
		if c.negative[word] {
			neg++
		}
	}

	total := pos + neg
	if total == 0 || pos == neg {
		return Sentiment{Label: LabelNeutral, Confidence: 0.5}, nil
	}

	if pos > neg {
		return Sentiment{
			Label:      LabelPositive,
			Confidence: 0.5 + 0.5*float64(pos-neg)/float64(total),
		}, nil
	}
	return Sentiment{
		Label:      LabelNegative,
		Confidence: 0.5 + 0.5*float64(neg-pos)/float64(total),
	}, nil
}

func (c *LexiconClassifier) Close() error { return nil }

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
