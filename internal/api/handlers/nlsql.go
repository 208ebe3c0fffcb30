package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finsight/copilot/internal/llm"
	"github.com/finsight/copilot/internal/nlsql"
	"github.com/finsight/copilot/internal/redact"
)

type NLSQLHandler struct {
	service *nlsql.Service
}

func NewNLSQLHandler(s *nlsql.Service) *NLSQLHandler {
	return &NLSQLHandler{service: s}
}

type nlsqlRequest struct {
	Question string `json:"question"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Redact   *bool  `json:"redact"`
}

// Query translates the question to SQL and runs it. A statement blocked by
// the guardrails comes back as 422 together with the refused SQL.
func (h *NLSQLHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req nlsqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question required")
		return
	}

	question := req.Question
	if redactOn(req.Redact) {
		question = redact.Apply(question)
	}

	result, err := h.service.Query(r.Context(), question, req.Provider, req.Model)
	if err != nil {
		var apiErr *llm.APIError
		switch {
		case errors.Is(err, nlsql.ErrBlocked):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"sql":   result.SQL,
				"error": err.Error(),
			})
		case errors.As(err, &apiErr):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			payload := map[string]any{"error": err.Error()}
			if result != nil {
				payload["sql"] = result.SQL
			}
			writeJSON(w, http.StatusBadRequest, payload)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
