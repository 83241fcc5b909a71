package cli

import (
	"errors"
	"fmt"

	"citerag/config"
	"citerag/internal/adapter/embedding"
	"citerag/internal/adapter/generator"
	"citerag/internal/adapter/store"
	"citerag/internal/domain"
	"citerag/internal/port"
	"citerag/internal/usecase"
)

// newEmbedder creates the embedder named by the config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	var embedder port.Embedder
	var err error

	switch cfg.Embedding.Provider {
	case "openai":
		embedder, err = embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension)
	case "ollama":
		embedder = embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.Dimension)
	case "hash":
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	if cfg.Embedding.CacheTTL > 0 {
		embedder = embedding.NewCachedEmbedder(embedder, cfg.Embedding.CacheTTL)
	}
	return embedder, nil
}

// openCollection opens the configured collection and checks that the
// embedder produces vectors it can be searched with.
func openCollection(cfg *config.Config, embedder port.Embedder) (*store.Collection, error) {
	dir := cfg.CollectionDir(GetRootDir())

	coll, err := store.OpenCollection(dir, log)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return nil, fmt.Errorf("%w. Run 'citerag ingest' first", err)
		}
		return nil, err
	}

	if err := store.CheckCompatibility(coll.Info(), embedder); err != nil {
		coll.Close()
		return nil, err
	}

	return coll, nil
}

// pipeline is everything a question needs, built once per process.
type pipeline struct {
	collection *store.Collection
	retrieve   *usecase.RetrieveUseCase
	ask        *usecase.AskUseCase
}

func (p *pipeline) Close() error {
	return p.collection.Close()
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	coll, err := openCollection(cfg, embedder)
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(cfg.Generation)
	if err != nil {
		coll.Close()
		return nil, err
	}

	retrieve := usecase.NewRetrieveUseCase(embedder, coll, log)
	return &pipeline{
		collection: coll,
		retrieve:   retrieve,
		ask:        usecase.NewAskUseCase(retrieve, gen, log),
	}, nil
}
