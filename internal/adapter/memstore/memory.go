package memstore

import (
	"fmt"
	"sort"
	"sync"

	"citerag/internal/adapter/store"
	"citerag/internal/domain"
)

// MemoryStore is an in-process VectorStore with the same ordering rules as
// the bolt collection. Useful for tests and throwaway collections.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	chunks    []domain.Chunk
	vectors   [][]float32
	searches  []SearchCall
}

// SearchCall records the shape of one Search invocation.
type SearchCall struct {
	Query []float32
	K     int
}

func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

// Add appends chunks in insertion order.
func (s *MemoryStore) Add(chunk domain.Chunk, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(vector) != s.dimension {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}
	chunk.Seq = uint64(len(s.chunks) + 1)
	s.chunks = append(s.chunks, chunk)
	s.vectors = append(s.vectors, vector)
	return nil
}

func (s *MemoryStore) Search(query []float32, k int) ([]domain.RetrievedChunk, error) {
	s.mu.Lock()
	s.searches = append(s.searches, SearchCall{Query: query, K: k})
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}
	if k <= 0 || len(s.chunks) == 0 {
		return nil, nil
	}

	results := make([]domain.RetrievedChunk, len(s.chunks))
	for i, chunk := range s.chunks {
		results[i] = domain.RetrievedChunk{
			Chunk:    chunk,
			Distance: store.CosineDistance(query, s.vectors[i]),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (s *MemoryStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Searches returns every Search call made so far.
func (s *MemoryStore) Searches() []SearchCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SearchCall, len(s.searches))
	copy(out, s.searches)
	return out
}
