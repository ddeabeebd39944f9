package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// wellKnownEnv maps the deployment contract's unprefixed environment
// variables onto config keys. These names predate this service and are
// shared with the surrounding platform, so they are honored as-is.
var wellKnownEnv = map[string]string{
	"INTERNAL_TOKEN":  "internal_token",
	"AOAI_ENDPOINT":   "azure.endpoint",
	"AOAI_KEY":        "azure.api_key",
	"AOAI_DEPLOYMENT": "azure.deployment",
	"AOAI_EMBED":      "azure.embed_deployment",
	"PG_CONN":         "pg_conn",
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:       8080,
		Backend:    BackendNone,
		DataDir:    ".reasond",
		TopK:       6,
		Dimensions: 1536,
		Azure: AzureConfig{
			APIVersion: "2024-02-15-preview",
		},
		Ingest: IngestConfig{
			Include:     []string{"**/*.md", "**/*.txt"},
			ChunkTokens: 400,
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (REASON_* plus the platform's well-known
// names such as INTERNAL_TOKEN and PG_CONN).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: REASON_PORT -> port,
	// REASON_DATA_DIR -> data_dir, etc. Nested azure.* keys are covered by
	// the well-known AOAI_* names below.
	if err := k.Load(env.Provider("REASON_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "REASON_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// Overlay the fixed deployment env names last; they win.
	for name, key := range wellKnownEnv {
		if v := os.Getenv(name); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("setting %s from env: %w", key, err)
			}
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Infer the storage backend when unset: a Postgres DSN wins, otherwise
	// retrieval runs against the local store only if a data dir is present.
	if cfg.Backend == "" || cfg.Backend == BackendNone {
		if cfg.PGConn != "" {
			cfg.Backend = BackendPostgres
		}
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized storage backend values.
var validBackends = map[StorageBackend]bool{
	BackendPostgres: true,
	BackendLocal:    true,
	BackendNone:     true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.InternalToken == "" {
		return fmt.Errorf("internal_token is required (set INTERNAL_TOKEN)")
	}

	if !validBackends[c.Backend] {
		return fmt.Errorf("invalid backend %q: must be one of postgres, local, none", c.Backend)
	}
	if c.Backend == BackendPostgres && c.PGConn == "" {
		return fmt.Errorf("pg_conn is required for the postgres backend (set PG_CONN)")
	}
	if c.Backend == BackendLocal && c.DataDir == "" {
		return fmt.Errorf("data_dir is required for the local backend")
	}

	if c.Azure.Endpoint == "" {
		return fmt.Errorf("azure.endpoint is required (set AOAI_ENDPOINT)")
	}
	if c.Azure.APIKey == "" {
		return fmt.Errorf("azure.api_key is required (set AOAI_KEY)")
	}
	if c.Azure.Deployment == "" {
		return fmt.Errorf("azure.deployment is required (set AOAI_DEPLOYMENT)")
	}

	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive, got %d", c.Dimensions)
	}

	return nil
}

// EmbedDeployment returns the embedding deployment, falling back to the
// completion deployment the way the platform's AOAI_EMBED default does.
func (c *Config) EmbedDeployment() string {
	if c.Azure.EmbedDeployment != "" {
		return c.Azure.EmbedDeployment
	}
	return c.Azure.Deployment
}
