// Package llm sends assembled prompts to hosted chat-completion APIs. All
// providers implement one synchronous request/response operation; embeddings
// and sentiment run locally and are not part of this package.
package llm

import "context"

// Provider abstracts a hosted chat-completion API (OpenAI, Anthropic, or a
// local Ollama endpoint).
type Provider interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
	Models() []string
}

// Gateway routes a chat request to the named provider. Failures surface as
// *APIError; there is no automatic retry.
type Gateway interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Provider(name string) (Provider, error)
	ListModels() []ModelInfo
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type ChatRequest struct {
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

type ChatResponse struct {
	ID           string  `json:"id"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Content      string  `json:"content"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	LatencyMs    int64   `json:"latency_ms"`
}

// ModelInfo describes an available model.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// APIError is a failed hosted-API call: auth, network, rate limit or a bad
// response. It distinguishes external failures from caller mistakes.
type APIError struct {
	Provider string
	Err      error
}

func (e *APIError) Error() string {
	return e.Provider + " API call failed: " + e.Err.Error()
}

func (e *APIError) Unwrap() error { return e.Err }
