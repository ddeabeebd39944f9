package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cisohq/reasond/internal/manifest"
	mcpserver "github.com/cisohq/reasond/internal/mcp"
	"github.com/cisohq/reasond/internal/reason"
	"github.com/cisohq/reasond/internal/retrieval"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing knowledge search and grounded question answering to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()

		store, err := openStore(ctx, cfg)
		if err != nil {
			// Log warning but continue; search tools will report the gap.
			fmt.Fprintf(os.Stderr, "Warning: knowledge store unavailable: %v\n", err)
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		// The manifest only exists where ingest has run locally.
		var man *manifest.Manifest
		if cfg.DataDir != "" {
			if opened, err := manifest.Open(manifestPath(cfg)); err == nil {
				man = opened
				defer man.Close()
			} else if verbose {
				fmt.Fprintf(os.Stderr, "Warning: no ingest manifest: %v\n", err)
			}
		}

		retriever := retrieval.NewRetriever(store, createEmbedder(cfg))
		engine := reason.NewEngine(retriever, createProvider(cfg), cfg.TopK)

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "reasond MCP server started on stdio (backend=%s)\n", cfg.Backend)

		srv := mcpserver.NewServer(retriever, engine, man)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
