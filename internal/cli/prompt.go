package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"citerag/internal/usecase"
)

var (
	promptQuery string
	promptJSON  bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt a question would send, without calling the model",
	Long: `Retrieve passages for a question and print the assembled prompt. Nothing is
sent to the hosted model, so no credential is needed.

Examples:
  citerag prompt -q "What fabric trends are popular?"
  citerag prompt -q "What fabric trends are popular?" --json`,
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().StringVarP(&promptQuery, "query", "q", "", "question to build the prompt for (required)")
	promptCmd.Flags().BoolVar(&promptJSON, "json", false, "output retrieved chunks and prompt as JSON")
	promptCmd.MarkFlagRequired("query")
}

type promptOutput struct {
	Query  string        `json:"query"`
	Chunks []promptChunk `json:"chunks"`
	Prompt string        `json:"prompt"`
}

type promptChunk struct {
	Marker   string  `json:"marker"`
	Source   string  `json:"source"`
	Page     int     `json:"page,omitempty"`
	Distance float64 `json:"distance"`
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	results, err := p.retrieve.Retrieve(cmd.Context(), promptQuery)
	if err != nil {
		return err
	}

	texts := make([]string, len(results))
	chunks := make([]promptChunk, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Text
		chunks[i] = promptChunk{
			Marker:   usecase.CitationMarker(i + 1),
			Source:   r.Chunk.Source,
			Page:     r.Chunk.Page,
			Distance: r.Distance,
		}
	}
	prompt := usecase.BuildPrompt(texts, promptQuery)

	out := cmd.OutOrStdout()
	if promptJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(promptOutput{Query: promptQuery, Chunks: chunks, Prompt: prompt})
	}

	fmt.Fprintln(out, prompt)
	return nil
}
