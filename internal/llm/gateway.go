package llm

import (
	"context"
	"fmt"

	"github.com/finsight/copilot/internal/config"
)

type gateway struct {
	providers       map[string]Provider
	defaultProvider string
	defaultModel    string
}

// NewGateway builds a gateway over every configured provider. A failed call
// is returned to the caller as *APIError; it is never retried and never
// rerouted to another provider.
func NewGateway(cfg config.LLMConfig) Gateway {
	g := &gateway{
		providers:       make(map[string]Provider),
		defaultProvider: cfg.DefaultProvider,
		defaultModel:    cfg.DefaultModel,
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}
	if cfg.OllamaURL != "" {
		g.providers["ollama"] = NewOllamaProvider(cfg.OllamaURL)
	}

	return g
}

// NewGatewayWithProviders wires explicit providers (used by tests).
func NewGatewayWithProviders(defaultProvider, defaultModel string, providers ...Provider) Gateway {
	g := &gateway{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	providerName := req.Provider
	if providerName == "" {
		providerName = g.defaultProvider
	}
	if req.Model == "" {
		req.Model = g.defaultModel
	}

	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	resp, err := p.ChatCompletion(ctx, req)
	if err != nil {
		return nil, &APIError{Provider: providerName, Err: err}
	}
	return resp, nil
}

func (g *gateway) ListModels() []ModelInfo {
	var models []ModelInfo
	for _, p := range g.providers {
		for _, m := range p.Models() {
			models = append(models, ModelInfo{Provider: p.Name(), Model: m})
		}
	}
	return models
}
