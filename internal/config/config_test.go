package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.InternalToken = "secret"
	cfg.Azure.Endpoint = "https://example.openai.azure.com/"
	cfg.Azure.APIKey = "key"
	cfg.Azure.Deployment = "gpt-4o"
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	for name := range wellKnownEnv {
		t.Setenv(name, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.TopK != 6 {
		t.Errorf("expected default top_k 6, got %d", cfg.TopK)
	}
	if cfg.Backend != BackendNone {
		t.Errorf("expected backend none without PG_CONN, got %q", cfg.Backend)
	}
}

func TestLoadWellKnownEnvOverrides(t *testing.T) {
	for name := range wellKnownEnv {
		t.Setenv(name, "")
	}
	t.Setenv("INTERNAL_TOKEN", "tok")
	t.Setenv("AOAI_ENDPOINT", "https://res.openai.azure.com/")
	t.Setenv("AOAI_DEPLOYMENT", "gpt-4o")
	t.Setenv("AOAI_EMBED", "text-embedding-3-small")
	t.Setenv("PG_CONN", "postgres://localhost/kb")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.InternalToken != "tok" {
		t.Errorf("INTERNAL_TOKEN not applied, got %q", cfg.InternalToken)
	}
	if cfg.Azure.Endpoint != "https://res.openai.azure.com/" {
		t.Errorf("AOAI_ENDPOINT not applied, got %q", cfg.Azure.Endpoint)
	}
	if cfg.Azure.EmbedDeployment != "text-embedding-3-small" {
		t.Errorf("AOAI_EMBED not applied, got %q", cfg.Azure.EmbedDeployment)
	}
	if cfg.Backend != BackendPostgres {
		t.Errorf("expected postgres backend inferred from PG_CONN, got %q", cfg.Backend)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	for name := range wellKnownEnv {
		t.Setenv(name, "")
	}

	path := filepath.Join(t.TempDir(), "reason.yml")
	yml := "port: 9090\nbackend: local\nazure:\n  deployment: gpt-4o-mini\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090 from file, got %d", cfg.Port)
	}
	if cfg.Backend != BackendLocal {
		t.Errorf("expected local backend from file, got %q", cfg.Backend)
	}
	if cfg.Azure.Deployment != "gpt-4o-mini" {
		t.Errorf("expected deployment from file, got %q", cfg.Azure.Deployment)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	for name := range wellKnownEnv {
		t.Setenv(name, "")
	}
	t.Setenv("INTERNAL_TOKEN", "from-env")

	path := filepath.Join(t.TempDir(), "reason.yml")
	if err := os.WriteFile(path, []byte("internal_token: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InternalToken != "from-env" {
		t.Errorf("expected env to win over file, got %q", cfg.InternalToken)
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing token", func(c *Config) { c.InternalToken = "" }},
		{"missing endpoint", func(c *Config) { c.Azure.Endpoint = "" }},
		{"missing key", func(c *Config) { c.Azure.APIKey = "" }},
		{"missing deployment", func(c *Config) { c.Azure.Deployment = "" }},
		{"bad port", func(c *Config) { c.Port = -1 }},
		{"bad backend", func(c *Config) { c.Backend = "redis" }},
		{"postgres without dsn", func(c *Config) { c.Backend = BackendPostgres; c.PGConn = "" }},
		{"zero top_k", func(c *Config) { c.TopK = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEmbedDeploymentFallback(t *testing.T) {
	cfg := validConfig()
	cfg.Azure.EmbedDeployment = ""
	if got := cfg.EmbedDeployment(); got != "gpt-4o" {
		t.Errorf("expected fallback to completion deployment, got %q", got)
	}
	cfg.Azure.EmbedDeployment = "embed"
	if got := cfg.EmbedDeployment(); got != "embed" {
		t.Errorf("expected explicit embed deployment, got %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reason.yml")
	cfg := validConfig()
	cfg.Port = 7070

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	for name := range wellKnownEnv {
		t.Setenv(name, "")
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 7070 {
		t.Errorf("expected saved port 7070, got %d", loaded.Port)
	}
}
