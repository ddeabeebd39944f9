package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
// Secrets (INTERNAL_TOKEN, AOAI_KEY, PG_CONN) are deliberately not prompted
// for or written to disk; they stay in the environment.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to reasond! Let's configure the service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Storage backend.
	backendPrompt := promptui.Select{
		Label: "Select knowledge storage backend",
		Items: []string{
			"postgres — PostgreSQL + pgvector (production)",
			"local    — file-backed store under data_dir (development)",
			"none     — no retrieval, answers are ungrounded",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	backends := []StorageBackend{BackendPostgres, BackendLocal, BackendNone}
	cfg.Backend = backends[backendIdx]

	// 2. Azure OpenAI endpoint.
	endpointPrompt := promptui.Prompt{
		Label: "Azure OpenAI endpoint (https://<resource>.openai.azure.com/)",
	}
	endpoint, err := endpointPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("endpoint: %w", err)
	}
	cfg.Azure.Endpoint = endpoint

	// 3. Completion deployment.
	deployPrompt := promptui.Prompt{
		Label:   "Chat completion deployment name",
		Default: "gpt-4o",
	}
	deployment, err := deployPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("deployment: %w", err)
	}
	cfg.Azure.Deployment = deployment

	// 4. Embedding deployment (empty = reuse completion deployment).
	embedPrompt := promptui.Prompt{
		Label:   "Embedding deployment name",
		Default: "text-embedding-3-small",
	}
	embed, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embed deployment: %w", err)
	}
	cfg.Azure.EmbedDeployment = embed

	// 5. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP listen port",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("Remember to export INTERNAL_TOKEN and AOAI_KEY (and PG_CONN for postgres).")

	return cfg, nil
}
