package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"citerag/internal/domain"
	"citerag/internal/port"
)

// MissingCredentialWarning is shown instead of an answer when no credential
// has been supplied.
const MissingCredentialWarning = "Please enter a valid Gemini API key."

// AskUseCase runs one question through retrieval, prompt assembly and
// generation.
type AskUseCase struct {
	retriever port.Retriever
	generator port.Generator
	logger    *zap.Logger
}

func NewAskUseCase(retriever port.Retriever, generator port.Generator, logger *zap.Logger) *AskUseCase {
	return &AskUseCase{
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// Ask answers query with the given credential. A blank credential is not an
// error: the answer carries MissingCredentialWarning and nothing else runs.
// Retrieval and generation errors are returned as is.
func (u *AskUseCase) Ask(ctx context.Context, credential, query string) (*domain.Answer, error) {
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	if strings.TrimSpace(credential) == "" {
		u.logger.Info("question skipped", zap.Error(domain.ErrMissingCredential))
		return &domain.Answer{Query: query, Warning: MissingCredentialWarning}, nil
	}

	start := time.Now()

	results, err := u.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	texts := make([]string, len(results))
	sources := make([]domain.Source, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
		sources[i] = domain.Source{
			Marker: CitationMarker(i + 1),
			Rank:   i + 1,
			Path:   r.Chunk.Source,
			Page:   r.Chunk.Page,
			Text:   strings.TrimSpace(r.Chunk.Text),
		}
	}

	prompt := BuildPrompt(texts, query)

	text, err := u.generator.Generate(ctx, credential, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	u.logger.Info("question answered",
		zap.Int("sources", len(sources)),
		zap.Int("prompt_chars", len(prompt)),
		zap.String("model", u.generator.ModelName()),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.Answer{Query: query, Text: text, Sources: sources}, nil
}
