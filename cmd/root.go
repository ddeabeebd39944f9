package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "reasond",
	Short: "Retrieval-grounded reasoning service for security operations",
	Long: `Reasond answers questions over a per-tenant security knowledge base.
It ingests policy documents and runbooks into a vector store, serves an
HMAC-authenticated reasoning endpoint over HTTP, and exposes the same
knowledge to AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".reasond.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
