package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"citerag/internal/adapter/loader"
	"citerag/internal/adapter/store"
	"citerag/internal/domain"
	"citerag/internal/port"
)

// IngestUseCase builds a collection from a directory of source documents.
type IngestUseCase struct {
	walker    port.FileWalker
	loader    port.DocumentLoader
	chunker   port.Chunker
	embedder  port.Embedder
	batchSize int
	logger    *zap.Logger
}

// IngestResult contains the results of an ingest run.
type IngestResult struct {
	FilesIngested int
	FilesSkipped  int
	ChunksWritten int
	Info          domain.CollectionInfo
	Errors        []string
}

// ProgressFunc is called after each embedded batch.
type ProgressFunc func(processed, total int)

func NewIngestUseCase(
	walker port.FileWalker,
	loader port.DocumentLoader,
	chunker port.Chunker,
	embedder port.Embedder,
	batchSize int,
	logger *zap.Logger,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &IngestUseCase{
		walker:    walker,
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Ingest reads every matching document under root and writes a new
// collection into outDir, replacing the previous one only on success.
func (u *IngestUseCase) Ingest(ctx context.Context, root, outDir string, progress ProgressFunc) (*IngestResult, error) {
	result := &IngestResult{}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	files, err := u.walker.Walk(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	var chunks []domain.Chunk
	for _, file := range files {
		docChunks, err := u.chunkFile(absRoot, file)
		if err != nil {
			result.FilesSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Path, err))
			u.logger.Warn("skipping document", zap.String("path", file.Path), zap.Error(err))
			continue
		}
		if len(docChunks) == 0 {
			result.FilesSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: no text extracted", file.Path))
			continue
		}
		chunks = append(chunks, docChunks...)
		result.FilesIngested++
	}

	if len(chunks) == 0 {
		return result, fmt.Errorf("no text found under %s", root)
	}

	writer, err := store.CreateCollection(outDir, u.embedder.ModelName(), u.embedder.Dimension())
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(chunks); i += u.batchSize {
		if err := ctx.Err(); err != nil {
			writer.Abort()
			return nil, err
		}

		end := i + u.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, c := range batch {
			texts[j] = c.Text
		}

		vectors, err := u.embedder.Embed(ctx, texts)
		if err != nil {
			writer.Abort()
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}

		if _, err := writer.Append(batch, vectors); err != nil {
			writer.Abort()
			return nil, fmt.Errorf("failed to store chunks: %w", err)
		}

		result.ChunksWritten += len(batch)
		if progress != nil {
			progress(result.ChunksWritten, len(chunks))
		}
	}

	info, err := writer.Commit()
	if err != nil {
		return nil, err
	}
	result.Info = info

	u.logger.Info("collection built",
		zap.String("dir", outDir),
		zap.Int("files", result.FilesIngested),
		zap.Int("chunks", result.ChunksWritten),
		zap.String("embedding_model", info.EmbeddingModel))

	return result, nil
}

func (u *IngestUseCase) chunkFile(root string, file port.FileInfo) ([]domain.Chunk, error) {
	pages, err := u.loader.Load(file.Path)
	if err != nil {
		return nil, err
	}

	// Sources are cited relative to the ingested tree.
	relPath, err := filepath.Rel(root, file.Path)
	if err != nil {
		relPath = file.Path
	}
	relPath = filepath.ToSlash(relPath)

	doc := domain.Document{
		ID:      generateDocID(relPath),
		Path:    relPath,
		ModTime: time.Unix(file.ModTime, 0),
		Kind:    loader.Kind(file.Path),
	}

	var chunks []domain.Chunk
	for _, page := range pages {
		pageChunks, err := u.chunker.Chunk(doc, page.Number, page.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk page %d: %w", page.Number, err)
		}
		chunks = append(chunks, pageChunks...)
	}
	return chunks, nil
}

// generateDocID creates a unique ID for a document based on its path.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}
