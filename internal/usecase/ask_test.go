package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"citerag/internal/domain"
)

func newAsk(t *testing.T, gen *fakeGenerator) (*AskUseCase, *countingRetriever) {
	t.Helper()
	s, emb := newFashionStore(t)
	r := &countingRetriever{inner: NewRetrieveUseCase(emb, s, zap.NewNop())}
	return NewAskUseCase(r, gen, zap.NewNop()), r
}

func TestAskBlankCredential(t *testing.T) {
	for _, cred := range []string{"", "   "} {
		gen := &fakeGenerator{answer: "unused"}
		uc, r := newAsk(t, gen)

		answer, err := uc.Ask(context.Background(), cred, "What fabric trends are popular?")
		require.NoError(t, err)
		assert.Equal(t, MissingCredentialWarning, answer.Warning)
		assert.Empty(t, answer.Text)
		assert.Empty(t, answer.Sources)
		assert.Zero(t, r.calls, "no retrieval without credential")
		assert.Zero(t, gen.calls(), "no generation without credential")
	}
}

func TestAskEmptyQuery(t *testing.T) {
	gen := &fakeGenerator{}
	uc, r := newAsk(t, gen)

	_, err := uc.Ask(context.Background(), "key", "")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Zero(t, r.calls)
	assert.Zero(t, gen.calls())
}

func TestAskAnswersWithSources(t *testing.T) {
	gen := &fakeGenerator{answer: "Linen is popular [source_1]."}
	uc, _ := newAsk(t, gen)

	q := "What fabric trends are popular?"
	answer, err := uc.Ask(context.Background(), "secret-key", q)
	require.NoError(t, err)

	assert.Equal(t, "Linen is popular [source_1].", answer.Text)
	assert.Empty(t, answer.Warning)
	require.Len(t, answer.Sources, TopK)
	for i, src := range answer.Sources {
		assert.Equal(t, i+1, src.Rank)
		assert.Equal(t, CitationMarker(i+1), src.Marker)
		assert.Equal(t, "trends.md", src.Path)
	}

	require.Equal(t, 1, gen.calls())
	assert.Equal(t, "secret-key", gen.credentials[0])

	prompt := gen.prompts[0]
	assert.True(t, strings.HasSuffix(prompt, q))
	for _, src := range answer.Sources {
		assert.Equal(t, 1, strings.Count(prompt, src.Marker))
		assert.Contains(t, prompt, src.Text+"\n\n"+src.Marker)
	}
}

func TestAskRepeatedCallsSameRetrievalShape(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	s, emb := newFashionStore(t)
	uc := NewAskUseCase(NewRetrieveUseCase(emb, s, zap.NewNop()), gen, zap.NewNop())

	q := "What fabric trends are popular?"
	for i := 0; i < 3; i++ {
		_, err := uc.Ask(context.Background(), "key", q)
		require.NoError(t, err)
	}

	calls := s.Searches()
	require.Len(t, calls, 3)
	for _, c := range calls[1:] {
		assert.Equal(t, calls[0], c)
	}
	assert.Equal(t, gen.prompts[0], gen.prompts[1])
	assert.Equal(t, gen.prompts[1], gen.prompts[2])
}

func TestAskPropagatesErrors(t *testing.T) {
	t.Run("retrieval", func(t *testing.T) {
		gen := &fakeGenerator{}
		uc, r := newAsk(t, gen)
		r.err = errBoom

		_, err := uc.Ask(context.Background(), "key", "q")
		assert.ErrorIs(t, err, errBoom)
		assert.Zero(t, gen.calls())
	})

	t.Run("generation", func(t *testing.T) {
		gen := &fakeGenerator{err: errBoom}
		uc, _ := newAsk(t, gen)

		_, err := uc.Ask(context.Background(), "key", "q")
		assert.ErrorIs(t, err, errBoom)
	})
}
