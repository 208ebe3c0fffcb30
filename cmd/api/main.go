package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/copilot/internal/api"
	"github.com/finsight/copilot/internal/cache"
	"github.com/finsight/copilot/internal/config"
	"github.com/finsight/copilot/internal/copilot"
	"github.com/finsight/copilot/internal/corpus"
	"github.com/finsight/copilot/internal/infer"
	"github.com/finsight/copilot/internal/ingest"
	"github.com/finsight/copilot/internal/llm"
	"github.com/finsight/copilot/internal/nlsql"
	"github.com/finsight/copilot/internal/retrieval"
	"github.com/finsight/copilot/internal/sentiment"
	"github.com/finsight/copilot/pkg/chunker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	embedder := newEmbedder(cfg.Embedding)
	defer embedder.Close()

	classifier := newClassifier(cfg.Sentiment)
	defer classifier.Close()

	// Redis cache (optional)
	genCache, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSecs)*time.Second)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
		genCache = nil
	}
	defer genCache.Close()

	store := corpus.NewStore()
	ingestor := ingest.NewService(ingest.PDFExtractor{}, embedder, store, chunker.Options{
		Size:    cfg.Documents.ChunkSize,
		Overlap: cfg.Documents.ChunkOverlap,
	}, logger)

	gateway := llm.NewGateway(cfg.LLM)

	cp := copilot.New(
		gateway,
		retrieval.NewRetriever(store, embedder),
		sentiment.NewService(classifier, cfg.Sentiment.MaxWords),
		ingestor,
		genCache,
		cfg.Documents.Dir,
		logger,
	)

	// Initial corpus build; the /rag/ingest endpoint rebuilds it on demand.
	if report, err := ingestor.IngestDir(ctx, cfg.Documents.Dir); err != nil {
		slog.Warn("initial ingestion failed, corpus is empty", "error", err)
	} else {
		slog.Info("initial corpus ready", "files", report.Files, "chunks", report.Chunks)
	}

	// Demo transactions database for NL->SQL
	var nlsqlSvc *nlsql.Service
	db, err := nlsql.Open(cfg.NLSQL.DBPath)
	if err != nil {
		slog.Warn("transactions db unavailable, nlsql disabled", "error", err)
	} else {
		defer db.Close()
		if cfg.NLSQL.Seed {
			if n, err := nlsql.Seed(ctx, db); err != nil {
				slog.Warn("seeding transactions db failed", "error", err)
			} else {
				slog.Info("transactions db seeded", "rows", n)
			}
		}
		nlsqlSvc = nlsql.NewService(gateway, db, logger)
	}

	handler := api.NewRouter(cp, store, nlsqlSvc, db).Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// newEmbedder prefers the ONNX model when one is configured and loadable,
// otherwise falls back to the deterministic hash embedder.
func newEmbedder(cfg config.EmbeddingConfig) infer.Embedder {
	if cfg.ModelPath != "" {
		e, err := infer.NewONNXEmbedder(cfg.ModelPath, cfg.ModelName, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if err == nil {
			slog.Info("embedding model loaded", "model", cfg.ModelName, "path", cfg.ModelPath)
			return e
		}
		slog.Warn("embedding model unavailable, using hash embedder", "error", err)
	}
	return infer.NewHashEmbedder(cfg.Dimensions)
}

// newClassifier prefers the ONNX sentiment model, otherwise the keyword
// lexicon.
func newClassifier(cfg config.SentimentConfig) infer.SentimentClassifier {
	if cfg.ModelPath != "" {
		c, err := infer.NewONNXSentimentClassifier(cfg.ModelPath, cfg.MaxWords+2)
		if err == nil {
			slog.Info("sentiment model loaded", "path", cfg.ModelPath)
			return c
		}
		slog.Warn("sentiment model unavailable, using lexicon classifier", "error", err)
	}
	return infer.NewLexiconClassifier()
}
