package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"citerag/internal/domain"
	"citerag/internal/port"
)

// TopK is the number of chunks retrieved per question.
const TopK = 3

// RetrieveUseCase embeds a question and searches the collection.
type RetrieveUseCase struct {
	embedder port.Embedder
	store    port.VectorStore
	logger   *zap.Logger
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(embedder port.Embedder, store port.VectorStore, logger *zap.Logger) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Retrieve returns the TopK nearest chunks for query, ordered by ascending
// distance. Chunks are returned as stored: no dedup and no filtering.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	embeddings, err := u.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := u.store.Search(embeddings[0], TopK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	u.logger.Debug("retrieved chunks",
		zap.String("query", query),
		zap.Int("k", TopK),
		zap.Int("results", len(results)))

	return results, nil
}
