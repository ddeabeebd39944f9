package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cisohq/reasond/internal/auth"
	"github.com/cisohq/reasond/internal/reason"
	"github.com/cisohq/reasond/internal/retrieval"
	"github.com/cisohq/reasond/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reasoning HTTP service",
	Long:  `Starts the reasond HTTP service: the signed /reason endpoint, the SSE demo stream, and health probes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// The store is best-effort: a dead database must not keep the
		// service from answering, only from grounding its answers.
		store, err := openStore(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: knowledge store unavailable: %v\n", err)
			fmt.Fprintln(os.Stderr, "Answers will be ungrounded until the store recovers; restart to retry.")
			store = nil
		}
		if store != nil {
			defer store.Close()
		}

		embedder := createEmbedder(cfg)
		provider := createProvider(cfg)

		engine := reason.NewEngine(retrieval.NewRetriever(store, embedder), provider, cfg.TopK)
		verifier := auth.NewVerifier(cfg.InternalToken)

		srv := server.New(server.Config{
			Port:     cfg.Port,
			AllowAll: cfg.AllowAll,
		}, engine, verifier)

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "reasond v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", cfg.Backend)
		fmt.Fprintf(os.Stderr, "  Deployment: %s\n", cfg.Azure.Deployment)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
