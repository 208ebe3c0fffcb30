package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/finsight/copilot/internal/corpus"
)

type HealthHandler struct {
	store *corpus.Store
	db    *sql.DB
}

func NewHealthHandler(store *corpus.Store, db *sql.DB) *HealthHandler {
	return &HealthHandler{store: store, db: db}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			checks["nlsql_db"] = "unhealthy: " + err.Error()
		} else {
			checks["nlsql_db"] = "ok"
		}
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]any{
		"status": statusStr(status),
		"checks": checks,
		"chunks": h.store.Len(),
	})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
