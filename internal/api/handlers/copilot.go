package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finsight/copilot/internal/copilot"
	"github.com/finsight/copilot/internal/infer"
	"github.com/finsight/copilot/internal/llm"
	"github.com/finsight/copilot/internal/redact"
	"github.com/finsight/copilot/internal/sentiment"
	"github.com/finsight/copilot/internal/styles"
)

// CopilotHandler serves the four core operations: redaction, generation,
// retrieval and sentiment.
type CopilotHandler struct {
	copilot *copilot.Copilot
}

func NewCopilotHandler(c *copilot.Copilot) *CopilotHandler {
	return &CopilotHandler{copilot: c}
}

// redactOn implements the privacy toggle's default: redaction is on unless
// the request explicitly turns it off.
func redactOn(flag *bool) bool {
	return flag == nil || *flag
}

type redactRequest struct {
	Text string `json:"text"`
}

func (h *CopilotHandler) Redact(w http.ResponseWriter, r *http.Request) {
	var req redactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	masked := h.copilot.Redact(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"redacted": masked,
		"changed":  redact.Changed(req.Text),
	})
}

type generateRequest struct {
	Text        string  `json:"text"`
	Style       string  `json:"style"`
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	System      string  `json:"system"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Redact      *bool   `json:"redact"`
}

func (h *CopilotHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text required")
		return
	}
	if !styles.Valid(styles.Style(req.Style)) {
		writeError(w, http.StatusBadRequest, "unknown style: "+req.Style)
		return
	}

	result, err := h.copilot.Generate(r.Context(), copilot.GenerateRequest{
		Text:        req.Text,
		Style:       styles.Style(req.Style),
		Provider:    req.Provider,
		Model:       req.Model,
		System:      req.System,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Redact:      redactOn(req.Redact),
	})
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, apiErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *CopilotHandler) RAGIngest(w http.ResponseWriter, r *http.Request) {
	report, err := h.copilot.RefreshIndex(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type ragQueryRequest struct {
	Query    string  `json:"query"`
	TopK     int     `json:"top_k"`
	MinScore float64 `json:"min_score"`
	Redact   *bool   `json:"redact"`
}

func (h *CopilotHandler) RAGQuery(w http.ResponseWriter, r *http.Request) {
	var req ragQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query required")
		return
	}

	results, err := h.copilot.AnswerQuery(r.Context(), req.Query, req.TopK, req.MinScore, redactOn(req.Redact))
	if err != nil {
		if errors.Is(err, infer.ErrInference) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if results == nil {
		results = []copilot.RetrievalResult{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

type sentimentRequest struct {
	Text   string `json:"text"`
	Redact *bool  `json:"redact"`
}

func (h *CopilotHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	var req sentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.copilot.ClassifySentiment(r.Context(), req.Text, redactOn(req.Redact))
	if err != nil {
		if errors.Is(err, sentiment.ErrEmptyText) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, infer.ErrInference) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
