package usecase

import (
	"fmt"
	"strings"
)

const promptPreamble = `Answer the following question using the content below.
Include [source_n] markers to show where each fact comes from.`

// CitationMarker returns the marker for the chunk at 1-based rank.
func CitationMarker(rank int) string {
	return fmt.Sprintf("[source_%d]", rank)
}

// BuildPrompt assembles the generation prompt. Each chunk is trimmed and
// followed by its citation marker, in the given order; the prompt ends with
// the question text exactly as asked.
func BuildPrompt(chunks []string, query string) string {
	referenced := make([]string, len(chunks))
	for i, chunk := range chunks {
		referenced[i] = strings.TrimSpace(chunk) + "\n\n" + CitationMarker(i+1)
	}

	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(referenced, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	return b.String()
}
