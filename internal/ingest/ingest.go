// Package ingest builds the retrieval corpus from a folder of PDF documents:
// extract pages, chunk them, embed the chunks, and swap the result into the
// chunk store in one step.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/finsight/copilot/internal/corpus"
	"github.com/finsight/copilot/internal/infer"
	"github.com/finsight/copilot/pkg/chunker"
)

// Report summarizes one ingestion run. Warnings name files that could not be
// read; they do not fail the run.
type Report struct {
	Files    int      `json:"files"`
	Chunks   int      `json:"chunks"`
	Warnings []string `json:"warnings,omitempty"`
}

type Service struct {
	extractor PageExtractor
	embedder  infer.Embedder
	store     *corpus.Store
	opts      chunker.Options
	logger    *slog.Logger
}

func NewService(extractor PageExtractor, embedder infer.Embedder, store *corpus.Store, opts chunker.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		opts:      opts,
		logger:    logger,
	}
}

// IngestDir rebuilds the corpus from every .pdf under dir (non-recursive).
// The previous chunk set stays in place until the new one is fully built, so
// concurrent queries never see a partial corpus. A directory with no PDFs
// clears the corpus.
func (s *Service) IngestDir(ctx context.Context, dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	report := &Report{}
	var chunks []corpus.Chunk
	var texts []string

	for _, path := range files {
		pages, err := s.extractor.Pages(path)
		if err != nil {
			s.logger.Warn("skipping unreadable document", "file", path, "error", err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", filepath.Base(path), err))
			continue
		}
		report.Files++

		base := filepath.Base(path)
		for pageNum, pageText := range pages {
			for _, tc := range chunker.Split(pageText, s.opts) {
				chunks = append(chunks, corpus.Chunk{
					ID:         uuid.New(),
					Text:       tc.Content,
					SourceFile: base,
					Page:       pageNum + 1,
				})
				texts = append(texts, tc.Content)
			}
		}
	}

	if len(chunks) == 0 {
		if err := s.store.Replace(nil, s.embedder.Model()); err != nil {
			return nil, err
		}
		s.logger.Info("corpus rebuilt empty", "dir", dir, "warnings", len(report.Warnings))
		return report, nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed corpus: got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.store.Replace(chunks, s.embedder.Model()); err != nil {
		return nil, fmt.Errorf("install corpus: %w", err)
	}

	report.Chunks = len(chunks)
	s.logger.Info("corpus rebuilt",
		"dir", dir,
		"files", report.Files,
		"chunks", report.Chunks,
		"warnings", len(report.Warnings),
	)
	return report, nil
}
