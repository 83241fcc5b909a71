package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"citerag/internal/adapter/analyzer"
	"citerag/internal/domain"
)

// LineChunker packs consecutive lines into chunks of at most maxTokens,
// carrying roughly overlap tokens of trailing lines into the next chunk.
type LineChunker struct {
	maxTokens int
	overlap   int
	tokenizer *analyzer.Tokenizer
}

func NewLineChunker(maxTokens, overlap int, tokenizer *analyzer.Tokenizer) *LineChunker {
	return &LineChunker{
		maxTokens: maxTokens,
		overlap:   overlap,
		tokenizer: tokenizer,
	}
}

func (c *LineChunker) Chunk(doc domain.Document, page int, content string) ([]domain.Chunk, error) {
	lines := nonBlankLines(content)
	if len(lines) == 0 {
		return nil, nil
	}

	var chunks []domain.Chunk
	startLine := 0

	for startLine < len(lines) {
		endLine := startLine
		currentTokens := 0
		var chunkText strings.Builder

		for endLine < len(lines) {
			lineTokens := c.tokenizer.CountTokens(lines[endLine])

			if currentTokens > 0 && currentTokens+lineTokens > c.maxTokens {
				break
			}

			if chunkText.Len() > 0 {
				chunkText.WriteString("\n")
			}
			chunkText.WriteString(lines[endLine])
			currentTokens += lineTokens
			endLine++
		}

		chunks = append(chunks, domain.Chunk{
			ID:     generateChunkID(doc.ID, page, startLine, endLine),
			DocID:  doc.ID,
			Source: doc.Path,
			Page:   page,
			Text:   chunkText.String(),
		})

		if endLine >= len(lines) {
			break
		}

		newStart := endLine - c.calculateOverlapLines(lines, startLine, endLine)
		if newStart <= startLine {
			newStart = startLine + 1
		}
		startLine = newStart
	}

	return chunks, nil
}

func (c *LineChunker) calculateOverlapLines(lines []string, start, end int) int {
	if c.overlap == 0 {
		return 0
	}

	overlapLines := 0
	tokens := 0

	for i := end - 1; i > start && tokens < c.overlap; i-- {
		tokens += c.tokenizer.CountTokens(lines[i])
		overlapLines++
	}

	return overlapLines
}

func nonBlankLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func generateChunkID(docID string, page, startLine, endLine int) string {
	data := fmt.Sprintf("%s:%d:%d-%d", docID, page, startLine, endLine)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
