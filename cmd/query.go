package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cisohq/reasond/internal/config"
	"github.com/cisohq/reasond/internal/retrieval"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Semantically search the knowledge base",
	Long:  `Embeds a natural language query and returns the nearest knowledge chunks for one tenant.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().String("org", "default", "tenant to search")
	queryCmd.Flags().Int("limit", retrieval.DefaultTopK, "maximum number of results")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	org, _ := cmd.Flags().GetString("org")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Backend == config.BackendNone {
		return fmt.Errorf("no storage backend configured: set PG_CONN or backend: local")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening knowledge store: %w", err)
	}
	defer store.Close()

	retriever := retrieval.NewRetriever(store, createEmbedder(cfg))
	chunks := retriever.Retrieve(ctx, org, queryText, limit)

	if len(chunks) == 0 {
		fmt.Println("No results found. Run `reasond ingest` first to add documents.")
		return nil
	}

	if jsonOutput {
		return printQueryResultsJSON(chunks)
	}
	printQueryResultsTable(chunks)
	return nil
}

type queryResultJSON struct {
	Rank  int    `json:"rank"`
	Title string `json:"title"`
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	Chunk int    `json:"chunk"`
	Text  string `json:"text"`
}

func printQueryResultsJSON(chunks []retrieval.Chunk) error {
	var out []queryResultJSON
	for i, c := range chunks {
		out = append(out, queryResultJSON{
			Rank:  i + 1,
			Title: c.Title(),
			Path:  c.Meta["path"],
			URL:   c.URL(),
			Chunk: c.N,
			Text:  truncate(c.Text, 200),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printQueryResultsTable(chunks []retrieval.Chunk) {
	fmt.Printf("Found %d results:\n\n", len(chunks))
	for i, c := range chunks {
		location := c.Meta["path"]
		if location == "" {
			location = c.DocID
		}
		fmt.Printf("  %d. %s (%s#%d)\n", i+1, c.Title(), location, c.N)
		fmt.Printf("     %s\n\n", truncate(c.Text, 120))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
