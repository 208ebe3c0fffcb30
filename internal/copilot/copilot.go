// Package copilot is the application facade behind the HTTP handlers. It
// composes redaction, retrieval, sentiment and hosted-LLM generation; each
// operation fails independently of the others.
package copilot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/finsight/copilot/internal/cache"
	"github.com/finsight/copilot/internal/ingest"
	"github.com/finsight/copilot/internal/llm"
	"github.com/finsight/copilot/internal/redact"
	"github.com/finsight/copilot/internal/retrieval"
	"github.com/finsight/copilot/internal/sentiment"
	"github.com/finsight/copilot/internal/styles"
)

type Copilot struct {
	gateway   llm.Gateway
	retriever *retrieval.Retriever
	sentiment *sentiment.Service
	ingestor  *ingest.Service
	cache     *cache.Cache
	docsDir   string
	logger    *slog.Logger
}

func New(gateway llm.Gateway, retriever *retrieval.Retriever, sent *sentiment.Service,
	ingestor *ingest.Service, c *cache.Cache, docsDir string, logger *slog.Logger) *Copilot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Copilot{
		gateway:   gateway,
		retriever: retriever,
		sentiment: sent,
		ingestor:  ingestor,
		cache:     c,
		docsDir:   docsDir,
		logger:    logger,
	}
}

// Redact masks emails, phone numbers and account numbers in text.
func (c *Copilot) Redact(text string) string {
	return redact.Apply(text)
}

// GenerateRequest carries one completion request. Redact defaults to on at
// the API boundary; here it is a plain flag.
type GenerateRequest struct {
	Text        string
	Style       styles.Style
	Provider    string
	Model       string
	System      string
	Temperature float64
	MaxTokens   int
	Redact      bool
}

type GenerateResult struct {
	Output   string  `json:"output"`
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Redacted bool    `json:"redacted"`
	Cached   bool    `json:"cached"`
	CostUSD  float64 `json:"cost_usd"`
}

// Generate renders the preset style around the (possibly redacted) text and
// sends it to the configured provider. Identical requests are served from
// the cache when one is configured.
func (c *Copilot) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Text == "" {
		return nil, errors.New("no text to generate from")
	}

	text := req.Text
	redacted := false
	if req.Redact {
		masked := redact.Apply(text)
		redacted = masked != text
		text = masked
	}

	prompt, err := styles.Apply(req.Style, text)
	if err != nil {
		return nil, err
	}

	system := req.System
	if system == "" {
		system = styles.DefaultSystemPrompt
	}

	key := cache.Key(req.Provider, req.Model, system, prompt,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		strconv.Itoa(req.MaxTokens))
	var cached GenerateResult
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		cached.Cached = true
		return &cached, nil
	}

	resp, err := c.gateway.Chat(ctx, llm.ChatRequest{
		Provider: req.Provider,
		Model:    req.Model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Output:   resp.Content,
		Provider: resp.Provider,
		Model:    resp.Model,
		Redacted: redacted,
		CostUSD:  resp.CostUSD,
	}
	if err := c.cache.Set(ctx, key, result); err != nil {
		c.logger.Warn("caching completion failed", "error", err)
	}
	return result, nil
}

// RetrievalResult is one ranked chunk, shaped for the API response.
type RetrievalResult struct {
	Text       string  `json:"text"`
	SourceFile string  `json:"source_file"`
	Page       int     `json:"page"`
	Score      float64 `json:"score"`
}

// AnswerQuery retrieves the chunks most similar to query. An empty corpus
// yields an empty slice, never an error; redaction (when on) is applied to
// the query before it is embedded.
func (c *Copilot) AnswerQuery(ctx context.Context, query string, topK int, minScore float64, redactQuery bool) ([]RetrievalResult, error) {
	if query == "" {
		return nil, errors.New("no query to answer")
	}
	if redactQuery {
		query = redact.Apply(query)
	}

	hits, err := c.retriever.Retrieve(ctx, query, retrieval.Options{TopK: topK, MinScore: minScore})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	results := make([]RetrievalResult, len(hits))
	for i, h := range hits {
		results[i] = RetrievalResult{
			Text:       h.Chunk.Text,
			SourceFile: h.Chunk.SourceFile,
			Page:       h.Chunk.Page,
			Score:      h.Score,
		}
	}
	return results, nil
}

type SentimentResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ClassifySentiment labels text as positive, negative or neutral.
func (c *Copilot) ClassifySentiment(ctx context.Context, text string, redactText bool) (SentimentResult, error) {
	if redactText {
		text = redact.Apply(text)
	}
	s, err := c.sentiment.Classify(ctx, text)
	if err != nil {
		return SentimentResult{}, err
	}
	return SentimentResult{Label: s.Label, Confidence: s.Confidence}, nil
}

// RefreshIndex rebuilds the retrieval corpus from the configured documents
// folder.
func (c *Copilot) RefreshIndex(ctx context.Context) (*ingest.Report, error) {
	return c.ingestor.IngestDir(ctx, c.docsDir)
}
