package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cisohq/reasond/internal/config"
	"github.com/cisohq/reasond/internal/embeddings"
	"github.com/cisohq/reasond/internal/llm"
	"github.com/cisohq/reasond/internal/retrieval"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `reasond init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedder builds the Azure OpenAI embedder from config.
func createEmbedder(cfg *config.Config) embeddings.Embedder {
	return embeddings.NewAzureEmbedder(
		cfg.Azure.Endpoint,
		cfg.Azure.APIKey,
		cfg.EmbedDeployment(),
		cfg.Azure.APIVersion,
		cfg.Dimensions,
	)
}

// createProvider builds the completion provider, paced if completion_rpm is set.
func createProvider(cfg *config.Config) llm.Provider {
	provider := llm.NewAzureProvider(
		cfg.Azure.Endpoint,
		cfg.Azure.APIKey,
		cfg.Azure.Deployment,
		cfg.Azure.APIVersion,
	)
	return llm.NewPacedProvider(provider, cfg.CompletionRPM)
}

// openStore opens the configured knowledge store. With backend "none" it
// returns (nil, nil): retrieval is simply disabled.
func openStore(ctx context.Context, cfg *config.Config) (retrieval.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		store, err := retrieval.NewPostgresStore(ctx, cfg.PGConn, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendLocal:
		store, err := retrieval.NewLocalStore(filepath.Join(cfg.DataDir, "vectors"))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

// manifestPath returns the location of the ingest manifest database.
func manifestPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "manifest.db")
}
