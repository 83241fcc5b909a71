package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"citerag/internal/adapter/store"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show collection metadata",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	coll, err := store.OpenCollection(cfg.CollectionDir(GetRootDir()), log)
	if err != nil {
		return err
	}
	defer coll.Close()

	info := coll.Info()
	out := cmd.OutOrStdout()

	if infoJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Collection:      %s\n", coll.Path())
	fmt.Fprintf(out, "Chunks:          %d\n", info.Chunks)
	fmt.Fprintf(out, "Embedding model: %s (%d dims)\n", info.EmbeddingModel, info.Dimension)
	fmt.Fprintf(out, "Schema version:  %d\n", info.SchemaVersion)
	fmt.Fprintf(out, "Created:         %s\n", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
