package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	askQuery string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer one question from the terminal",
	Long: `Answer one question with cited sources. The credential for the hosted model
is read from the environment variable named by generation.credential_env
(GOOGLE_API_KEY by default, .env files are honoured).

Examples:
  citerag ask -q "What fabric trends are popular?"
  citerag ask -q "Which colours sold best?" --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "question to answer (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	credential := os.Getenv(cfg.Generation.CredentialEnv)

	answer, err := p.ask.Ask(cmd.Context(), credential, askQuery)
	if err != nil {
		log.Error("question failed", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()

	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	if answer.Warning != "" {
		color.New(color.FgYellow).Fprintln(out, answer.Warning)
		return nil
	}

	fmt.Fprintln(out, answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(out)
		color.New(color.Bold).Fprintln(out, "Sources:")
		for _, src := range answer.Sources {
			if src.Page > 0 {
				fmt.Fprintf(out, "  %s %s (page %d)\n", src.Marker, src.Path, src.Page)
			} else {
				fmt.Fprintf(out, "  %s %s\n", src.Marker, src.Path)
			}
		}
	}
	return nil
}
