package embedding

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"citerag/internal/port"
)

// CachedEmbedder memoises embeddings per text for a limited time.
type CachedEmbedder struct {
	embedder port.Embedder
	cache    *cache.Cache
}

func NewCachedEmbedder(embedder port.Embedder, ttl time.Duration) *CachedEmbedder {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedEmbedder{
		embedder: embedder,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if v, ok := c.cache.Get(c.key(text)); ok {
			out[i] = v.([]float32)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	embeddings, err := c.embedder.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, emb := range embeddings {
		out[missingIdx[j]] = emb
		c.cache.Set(c.key(missing[j]), emb, cache.DefaultExpiration)
	}
	return out, nil
}

func (c *CachedEmbedder) key(text string) string {
	return c.embedder.ModelName() + "\x00" + text
}

func (c *CachedEmbedder) Dimension() int {
	return c.embedder.Dimension()
}

func (c *CachedEmbedder) ModelName() string {
	return c.embedder.ModelName()
}
