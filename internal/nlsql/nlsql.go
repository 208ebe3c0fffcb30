// Package nlsql translates natural-language questions into guarded SELECT
// statements over the demo transactions database and executes them on
// SQLite. Nothing runs unless sanitization passes.
package nlsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finsight/copilot/internal/llm"
)

// ErrBlocked marks SQL that failed sanitization. The generated statement is
// still returned to the caller so it can be shown, never run.
var ErrBlocked = errors.New("blocked query")

const defaultRowCap = 100

var systemPrompt = strings.TrimSpace(`
You are an assistant that translates user requests into SQL SELECT queries for SQLite.

Rules:
- Use ONLY the table ` + "`transactions`" + ` with columns [amount, book, ccy, counterparty, id, ts].
- Output only a valid SQL SELECT statement. No explanations, no backticks.
- Do NOT modify data. Disallow any DDL/DML (DROP, DELETE, UPDATE, INSERT, ALTER, CREATE, ATTACH, PRAGMA).
- Prefer explicit filters (e.g., ccy='USD', counterparty='Acme Corp').
- If the query could return many rows, include a LIMIT (e.g., LIMIT 100).
- Timestamps are in column ` + "`ts`" + ` as 'YYYY-MM-DD HH:MM:SS'. You may use LIKE 'YYYY-MM-DD%' to filter by date.

Examples:
User: How many EUR trades with Acme Corp?
SQL: SELECT COUNT(*) FROM transactions WHERE ccy = 'EUR' AND counterparty = 'Acme Corp';

User: Show total amount per counterparty in USD.
SQL: SELECT counterparty, SUM(amount) AS total_amount FROM transactions WHERE ccy = 'USD' GROUP BY counterparty;

User: List the 5 largest USD trades with Beta Bank.
SQL: SELECT * FROM transactions WHERE ccy = 'USD' AND counterparty = 'Beta Bank' ORDER BY amount DESC LIMIT 5;
`)

type Service struct {
	gateway llm.Gateway
	db      *sql.DB
	rowCap  int
	logger  *slog.Logger
}

func NewService(gateway llm.Gateway, db *sql.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, db: db, rowCap: defaultRowCap, logger: logger}
}

// Result holds the generated statement and, when it passed sanitization and
// ran, the result set.
type Result struct {
	SQL     string   `json:"sql"`
	Columns []string `json:"columns,omitempty"`
	Rows    [][]any  `json:"rows,omitempty"`
}

// Query asks the configured LLM for a SELECT answering the question,
// sanitizes it and runs it. A blocked statement comes back with ErrBlocked
// and the raw SQL so the caller can display what was refused.
func (s *Service) Query(ctx context.Context, question, provider, model string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New("no question to translate")
	}

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Provider: provider,
		Model:    model,
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: strings.TrimSpace(question)},
		},
		Temperature: 0.2,
		MaxTokens:   200,
	})
	if err != nil {
		return nil, fmt.Errorf("generate SQL: %w", err)
	}

	raw := CleanLLMOutput(resp.Content)
	safe, err := Sanitize(raw)
	if err != nil {
		s.logger.Warn("generated SQL blocked", "sql", raw, "reason", err)
		return &Result{SQL: raw}, fmt.Errorf("%w: %v", ErrBlocked, err)
	}

	columns, rows, err := execute(ctx, s.db, safe, s.rowCap)
	if err != nil {
		return &Result{SQL: safe}, err
	}
	return &Result{SQL: safe, Columns: columns, Rows: rows}, nil
}
