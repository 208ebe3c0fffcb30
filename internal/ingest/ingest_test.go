package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/copilot/internal/corpus"
	"github.com/finsight/copilot/internal/infer"
	"github.com/finsight/copilot/pkg/chunker"
)

// fakeExtractor serves canned pages keyed by file base name and fails for
// names listed in broken.
type fakeExtractor struct {
	pages  map[string][]string
	broken map[string]bool
}

func (f *fakeExtractor) Pages(path string) ([]string, error) {
	base := filepath.Base(path)
	if f.broken[base] {
		return nil, fmt.Errorf("corrupt xref table")
	}
	return f.pages[base], nil
}

func writeDocs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
	return dir
}

func newTestService(ex PageExtractor, store *corpus.Store) *Service {
	return NewService(ex, infer.NewHashEmbedder(0), store, chunker.Options{Size: 50, Overlap: 10}, nil)
}

func TestIngestDirBuildsCorpus(t *testing.T) {
	dir := writeDocs(t, "basel.pdf", "kyc.pdf")
	ex := &fakeExtractor{pages: map[string][]string{
		"basel.pdf": {"Basel III raises capital requirements.", "Liquidity coverage ratio details."},
		"kyc.pdf":   {"Know your customer procedures."},
	}}
	store := corpus.NewStore()

	report, err := newTestService(ex, store).IngestDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.Chunks)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, "hash", store.Model())

	for _, c := range store.Snapshot() {
		assert.NotEmpty(t, c.Text)
		assert.NotEmpty(t, c.Embedding)
		assert.Greater(t, c.Page, 0)
	}
}

func TestIngestDirPageProvenance(t *testing.T) {
	dir := writeDocs(t, "report.pdf")
	ex := &fakeExtractor{pages: map[string][]string{
		"report.pdf": {"page one text", "page two text"},
	}}
	store := corpus.NewStore()

	_, err := newTestService(ex, store).IngestDir(context.Background(), dir)
	require.NoError(t, err)

	chunks := store.Snapshot()
	require.Len(t, chunks, 2)
	assert.Equal(t, "report.pdf", chunks[0].SourceFile)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[1].Page)
}

func TestIngestDirSkipsUnreadableFiles(t *testing.T) {
	dir := writeDocs(t, "good.pdf", "bad.pdf")
	ex := &fakeExtractor{
		pages:  map[string][]string{"good.pdf": {"readable content"}},
		broken: map[string]bool{"bad.pdf": true},
	}
	store := corpus.NewStore()

	report, err := newTestService(ex, store).IngestDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 1, report.Chunks)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "bad.pdf")
	assert.Equal(t, 1, store.Len())
}

func TestIngestDirIgnoresNonPDF(t *testing.T) {
	dir := writeDocs(t, "doc.pdf", "notes.txt")
	ex := &fakeExtractor{pages: map[string][]string{
		"doc.pdf":   {"pdf content"},
		"notes.txt": {"should never be read"},
	}}
	store := corpus.NewStore()

	report, err := newTestService(ex, store).IngestDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
}

func TestIngestDirEmptyFolderClearsCorpus(t *testing.T) {
	ex := &fakeExtractor{pages: map[string][]string{
		"old.pdf": {"stale content"},
	}}
	store := corpus.NewStore()

	full := writeDocs(t, "old.pdf")
	_, err := newTestService(ex, store).IngestDir(context.Background(), full)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	empty := t.TempDir()
	report, err := newTestService(ex, store).IngestDir(context.Background(), empty)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Chunks)
	assert.Equal(t, 0, store.Len())
}

func TestIngestDirReplacesWholesale(t *testing.T) {
	ex := &fakeExtractor{pages: map[string][]string{
		"a.pdf": {"first corpus"},
		"b.pdf": {"second corpus"},
	}}
	store := corpus.NewStore()

	dirA := writeDocs(t, "a.pdf")
	_, err := newTestService(ex, store).IngestDir(context.Background(), dirA)
	require.NoError(t, err)

	dirB := writeDocs(t, "b.pdf")
	_, err = newTestService(ex, store).IngestDir(context.Background(), dirB)
	require.NoError(t, err)

	chunks := store.Snapshot()
	require.Len(t, chunks, 1)
	assert.Equal(t, "b.pdf", chunks[0].SourceFile)
}

func TestIngestDirMissingDir(t *testing.T) {
	store := corpus.NewStore()
	_, err := newTestService(&fakeExtractor{}, store).IngestDir(context.Background(), "/nonexistent/path")
	require.Error(t, err)
}
