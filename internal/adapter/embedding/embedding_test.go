package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedderRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer ollama", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)

		resp := embeddingResponse{}
		// answer out of order to check index mapping
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, embeddingData{Index: i, Embedding: []float32{float32(i), 1, 0}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("all-minilm", srv.URL+"/v1/", 3)
	assert.Equal(t, 3, e.Dimension())
	assert.Equal(t, "all-minilm", e.ModelName())

	vecs, err := e.Embed(context.Background(), []string{"linen", "silk"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0, 1, 0}, vecs[0])
	assert.Equal(t, []float32{1, 1, 0}, vecs[1])
}

func TestOllamaEmbedderDefaultDimension(t *testing.T) {
	assert.Equal(t, 384, NewOllamaEmbedder("all-minilm", "", 0).Dimension())
	assert.Equal(t, 768, NewOllamaEmbedder("nomic-embed-text", "", 0).Dimension())
}

func TestOpenAIEmbedderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	t.Setenv("CITERAG_TEST_EMBED_KEY", "sk-test")
	e, err := NewOpenAIEmbedder("CITERAG_TEST_EMBED_KEY", "text-embedding-3-small", srv.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, 1536, e.Dimension())

	_, err = e.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = NewOpenAIEmbedder("CITERAG_TEST_UNSET_KEY", "text-embedding-3-small", "", 0)
	assert.Error(t, err)
}

func TestOpenAIEmbedderDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{Data: []embeddingData{{Index: 0, Embedding: []float32{1}}}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("all-minilm", srv.URL, 384)
	_, err := e.Embed(context.Background(), []string{"x"})
	assert.Error(t, err)
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)

	a, err := e.Embed(context.Background(), []string{"Linen blazers are popular", "linen blazers popular"})
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Len(t, a[0], 64)
	assert.Equal(t, a[0], a[1], "stopwords and case must not change the vector")

	b, _ := e.Embed(context.Background(), []string{"denim"})
	assert.NotEqual(t, a[0], b[0])
	assert.Equal(t, "hash-64", e.ModelName())
}

func TestHashEmbedderEmptyText(t *testing.T) {
	e := NewHashEmbedder(8)
	vecs, err := e.Embed(context.Background(), []string{""})
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vecs[0])
}

type countingEmbedder struct {
	*HashEmbedder
	calls atomic.Int32
	texts atomic.Int32
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls.Add(1)
	c.texts.Add(int32(len(texts)))
	return c.HashEmbedder.Embed(ctx, texts)
}

func TestCachedEmbedder(t *testing.T) {
	inner := &countingEmbedder{HashEmbedder: NewHashEmbedder(16)}
	c := NewCachedEmbedder(inner, time.Minute)

	first, err := c.Embed(context.Background(), []string{"fabric trends"})
	require.NoError(t, err)

	second, err := c.Embed(context.Background(), []string{"fabric trends", "silk"})
	require.NoError(t, err)

	assert.Equal(t, first[0], second[0])
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, int32(2), inner.texts.Load(), "cached text must not be embedded again")
	assert.Equal(t, inner.ModelName(), c.ModelName())
	assert.Equal(t, 16, c.Dimension())
}
