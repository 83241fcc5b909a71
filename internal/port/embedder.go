package port

import (
	"context"

	"citerag/internal/domain"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore searches stored chunk embeddings.
type VectorStore interface {
	// Search returns up to k chunks ordered by ascending distance to query.
	Search(query []float32, k int) ([]domain.RetrievedChunk, error)

	// Count returns the number of vectors in the store.
	Count() (int, error)
}
