package port

import (
	"context"

	"citerag/internal/domain"
)

// Retriever defines the interface for searching the collection.
type Retriever interface {
	// Retrieve returns the nearest chunks for query, most relevant first.
	Retrieve(ctx context.Context, query string) ([]domain.RetrievedChunk, error)
}
