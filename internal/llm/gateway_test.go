package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	reply   string
	err     error
	lastReq ChatRequest
	calls   int
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Models() []string { return []string{p.name + "-model"} }

func (p *fakeProvider) ChatCompletion(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &ChatResponse{Provider: p.name, Model: req.Model, Content: p.reply}, nil
}

func TestGatewayRoutesToNamedProvider(t *testing.T) {
	a := &fakeProvider{name: "openai", reply: "from openai"}
	b := &fakeProvider{name: "anthropic", reply: "from anthropic"}
	gw := NewGatewayWithProviders("openai", "gpt-4o-mini", a, b)

	resp, err := gw.Chat(context.Background(), ChatRequest{
		Provider: "anthropic",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "from anthropic", resp.Content)
	assert.Equal(t, 0, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestGatewayDefaultProviderAndModel(t *testing.T) {
	p := &fakeProvider{name: "openai", reply: "ok"}
	gw := NewGatewayWithProviders("openai", "gpt-4o-mini", p)

	_, err := gw.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.lastReq.Model)
}

func TestGatewayUnknownProvider(t *testing.T) {
	gw := NewGatewayWithProviders("openai", "m", &fakeProvider{name: "openai"})

	_, err := gw.Chat(context.Background(), ChatRequest{Provider: "nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestGatewayWrapsFailuresNoRetry(t *testing.T) {
	p := &fakeProvider{name: "openai", err: errors.New("429 rate limit")}
	gw := NewGatewayWithProviders("openai", "m", p)

	_, err := gw.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "openai", apiErr.Provider)
	assert.Contains(t, apiErr.Error(), "rate limit")
	assert.Equal(t, 1, p.calls) // exactly one attempt
}

func TestGatewayListModels(t *testing.T) {
	gw := NewGatewayWithProviders("openai", "m",
		&fakeProvider{name: "openai"}, &fakeProvider{name: "ollama"})
	models := gw.ListModels()
	assert.Len(t, models, 2)
}

func TestCalculateCost(t *testing.T) {
	cost := CalculateCost("gpt-4o-mini", 1000, 1000)
	assert.InDelta(t, 0.00075, cost, 1e-9)
	assert.Equal(t, 0.0, CalculateCost("unknown-model", 1000, 1000))
}
