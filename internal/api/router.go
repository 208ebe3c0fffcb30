// Package api wires the chi router: middleware, health probes and the
// copilot endpoints.
package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/finsight/copilot/internal/api/handlers"
	"github.com/finsight/copilot/internal/api/middleware"
	"github.com/finsight/copilot/internal/copilot"
	"github.com/finsight/copilot/internal/corpus"
	"github.com/finsight/copilot/internal/nlsql"
)

type Router struct {
	mux     *chi.Mux
	copilot *copilot.Copilot
	store   *corpus.Store
	nlsql   *nlsql.Service
	sqlDB   *sql.DB
}

func NewRouter(c *copilot.Copilot, store *corpus.Store, nlsqlSvc *nlsql.Service, sqlDB *sql.DB) *Router {
	return &Router{
		mux:     chi.NewRouter(),
		copilot: c,
		store:   store,
		nlsql:   nlsqlSvc,
		sqlDB:   sqlDB,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.store, rt.sqlDB)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	r.Route("/api/v1", func(r chi.Router) {
		cp := handlers.NewCopilotHandler(rt.copilot)
		r.Post("/redact", cp.Redact)
		r.Post("/generate", cp.Generate)
		r.Post("/sentiment", cp.Sentiment)

		r.Route("/rag", func(r chi.Router) {
			r.Post("/ingest", cp.RAGIngest)
			r.Post("/query", cp.RAGQuery)
		})

		if rt.nlsql != nil {
			nl := handlers.NewNLSQLHandler(rt.nlsql)
			r.Post("/nlsql/query", nl.Query)
		}
	})

	return r
}
