package copilot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/copilot/internal/corpus"
	"github.com/finsight/copilot/internal/infer"
	"github.com/finsight/copilot/internal/llm"
	"github.com/finsight/copilot/internal/retrieval"
	"github.com/finsight/copilot/internal/sentiment"
	"github.com/finsight/copilot/internal/styles"
	"github.com/google/uuid"
)

type fakeProvider struct {
	lastReq llm.ChatRequest
	reply   string
}

func (p *fakeProvider) Name() string     { return "openai" }
func (p *fakeProvider) Models() []string { return []string{"gpt-4o-mini"} }

func (p *fakeProvider) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.lastReq = req
	return &llm.ChatResponse{Provider: "openai", Model: req.Model, Content: p.reply}, nil
}

func newTestCopilot(t *testing.T, provider *fakeProvider, chunks []corpus.Chunk) *Copilot {
	t.Helper()
	embedder := infer.NewHashEmbedder(0)
	store := corpus.NewStore()
	if len(chunks) > 0 {
		for i := range chunks {
			vec, err := embedder.Embed(context.Background(), chunks[i].Text)
			require.NoError(t, err)
			chunks[i].Embedding = vec
		}
		require.NoError(t, store.Replace(chunks, embedder.Model()))
	}

	gw := llm.NewGatewayWithProviders("openai", "gpt-4o-mini", provider)
	return New(
		gw,
		retrieval.NewRetriever(store, embedder),
		sentiment.NewService(infer.NewLexiconClassifier(), 0),
		nil, // ingestion not exercised here
		nil, // no cache
		"",
		nil,
	)
}

func TestRedact(t *testing.T) {
	c := newTestCopilot(t, &fakeProvider{}, nil)
	out := c.Redact("mail jane.doe@example.com about account 1234567890")
	assert.Equal(t, "mail [EMAIL] about account [ACCT]", out)
}

func TestGenerateAppliesStyleAndRedaction(t *testing.T) {
	p := &fakeProvider{reply: "- point"}
	c := newTestCopilot(t, p, nil)

	res, err := c.Generate(context.Background(), GenerateRequest{
		Text:   "Contact jane.doe@example.com for the quarterly numbers.",
		Style:  styles.StyleExecutiveBullets,
		Redact: true,
	})
	require.NoError(t, err)

	assert.True(t, res.Redacted)
	assert.Equal(t, "- point", res.Output)

	require.Len(t, p.lastReq.Messages, 2)
	assert.Equal(t, "system", p.lastReq.Messages[0].Role)
	assert.Equal(t, styles.DefaultSystemPrompt, p.lastReq.Messages[0].Content)

	user := p.lastReq.Messages[1].Content
	assert.Contains(t, user, "3 concise executive bullet points")
	assert.Contains(t, user, "[EMAIL]")
	assert.NotContains(t, user, "jane.doe@example.com")
}

func TestGenerateRedactionOff(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	c := newTestCopilot(t, p, nil)

	res, err := c.Generate(context.Background(), GenerateRequest{
		Text: "Contact jane.doe@example.com.",
	})
	require.NoError(t, err)
	assert.False(t, res.Redacted)
	assert.Contains(t, p.lastReq.Messages[1].Content, "jane.doe@example.com")
}

func TestGenerateUnknownStyle(t *testing.T) {
	c := newTestCopilot(t, &fakeProvider{}, nil)
	_, err := c.Generate(context.Background(), GenerateRequest{Text: "hi", Style: "haiku"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown style")
}

func TestGenerateEmptyText(t *testing.T) {
	c := newTestCopilot(t, &fakeProvider{}, nil)
	_, err := c.Generate(context.Background(), GenerateRequest{})
	require.Error(t, err)
}

func TestAnswerQueryEmptyCorpus(t *testing.T) {
	c := newTestCopilot(t, &fakeProvider{}, nil)
	results, err := c.AnswerQuery(context.Background(), "what is basel iii", 5, 0, true)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnswerQueryRanksExactMatchFirst(t *testing.T) {
	chunks := []corpus.Chunk{
		{ID: uuid.New(), Text: "liquidity coverage ratio", SourceFile: "basel.pdf", Page: 1},
		{ID: uuid.New(), Text: "capital requirements overview", SourceFile: "basel.pdf", Page: 2},
		{ID: uuid.New(), Text: "customer onboarding steps", SourceFile: "kyc.pdf", Page: 1},
	}
	c := newTestCopilot(t, &fakeProvider{}, chunks)

	results, err := c.AnswerQuery(context.Background(), "liquidity coverage ratio", 2, 0, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "liquidity coverage ratio", results[0].Text)
	assert.Equal(t, "basel.pdf", results[0].SourceFile)
	assert.Equal(t, 1, results[0].Page)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestClassifySentiment(t *testing.T) {
	c := newTestCopilot(t, &fakeProvider{}, nil)

	res, err := c.ClassifySentiment(context.Background(), "Bank reports record quarterly profit", false)
	require.NoError(t, err)
	assert.Equal(t, infer.LabelPositive, res.Label)
	assert.Greater(t, res.Confidence, 0.5)
}

func TestClassifySentimentEmptyText(t *testing.T) {
	c := newTestCopilot(t, &fakeProvider{}, nil)
	_, err := c.ClassifySentiment(context.Background(), "", false)
	require.ErrorIs(t, err, sentiment.ErrEmptyText)
}
