// Package corpus holds the in-memory chunk set built by ingestion and read
// by retrieval. The set is replaced wholesale on re-ingestion; chunks are
// never mutated in place.
package corpus

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Chunk is a span of extracted document text with its embedding and
// provenance. Immutable after creation.
type Chunk struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	SourceFile string    `json:"source_file"`
	Page       int       `json:"page"` // 1-based
	Embedding  []float32 `json:"-"`
}

// Store is the process-wide chunk container. Readers see either the old set
// or the new one, never a half-built mix: Replace swaps the whole slice
// under the write lock.
type Store struct {
	mu     sync.RWMutex
	chunks []Chunk
	model  string
	dims   int
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a freshly built chunk set. Every embedding must share one
// dimensionality; model names the embedder that produced them, so scores
// from a different model never mix.
func (s *Store) Replace(chunks []Chunk, model string) error {
	dims := 0
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %d (%s p.%d): empty embedding", i, c.SourceFile, c.Page)
		}
		if dims == 0 {
			dims = len(c.Embedding)
		} else if len(c.Embedding) != dims {
			return fmt.Errorf("chunk %d (%s p.%d): embedding dimension %d, expected %d",
				i, c.SourceFile, c.Page, len(c.Embedding), dims)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = chunks
	s.model = model
	s.dims = dims
	return nil
}

// Snapshot returns the current chunk set. The slice must be treated as
// read-only; it may be shared with concurrent readers.
func (s *Store) Snapshot() []Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Model returns the name of the embedder that produced the current set.
func (s *Store) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Dimensions returns the embedding width of the current set, 0 when empty.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dims
}
