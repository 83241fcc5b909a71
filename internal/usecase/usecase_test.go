package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"citerag/internal/adapter/embedding"
	"citerag/internal/adapter/memstore"
	"citerag/internal/domain"
	"citerag/internal/port"
)

const testDim = 256

// fakeGenerator records prompts and returns a canned answer.
type fakeGenerator struct {
	mu          sync.Mutex
	answer      string
	err         error
	prompts     []string
	credentials []string
}

func (g *fakeGenerator) Generate(_ context.Context, credential, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.credentials = append(g.credentials, credential)
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func (g *fakeGenerator) ModelName() string { return "fake" }

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// countingRetriever wraps a retriever and counts calls.
type countingRetriever struct {
	inner port.Retriever
	calls int
	err   error
}

func (r *countingRetriever) Retrieve(ctx context.Context, query string) ([]domain.RetrievedChunk, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.inner.Retrieve(ctx, query)
}

var fashionCorpus = []string{
	"Linen fabric trends are popular this spring season.",
	"Recycled polyester fabric is popular in sportswear trends.",
	"Oversized tailoring trends continue on the runway.",
	"Care labels should list washing temperature.",
	"Boot sales rose in the autumn quarter.",
}

func newFashionStore(t *testing.T) (*memstore.MemoryStore, *embedding.HashEmbedder) {
	t.Helper()
	emb := embedding.NewHashEmbedder(testDim)
	s := memstore.NewMemoryStore(testDim)

	vectors, err := emb.Embed(context.Background(), fashionCorpus)
	require.NoError(t, err)
	for i, text := range fashionCorpus {
		require.NoError(t, s.Add(domain.Chunk{
			ID:     string(rune('a' + i)),
			Source: "trends.md",
			Text:   text,
		}, vectors[i]))
	}
	return s, emb
}

var errBoom = errors.New("boom")
