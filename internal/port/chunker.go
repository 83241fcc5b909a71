package port

import "citerag/internal/domain"

type Chunker interface {
	Chunk(doc domain.Document, page int, content string) ([]domain.Chunk, error)
}
