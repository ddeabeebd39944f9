package config

// StorageBackend selects where knowledge chunks are stored and searched.
type StorageBackend string

const (
	// BackendPostgres stores chunks in PostgreSQL with pgvector similarity.
	BackendPostgres StorageBackend = "postgres"

	// BackendLocal stores chunks in a file-backed chromem database under
	// DataDir. Intended for development and air-gapped setups.
	BackendLocal StorageBackend = "local"

	// BackendNone disables retrieval entirely; the service still answers,
	// just without grounding context.
	BackendNone StorageBackend = "none"
)

// AzureConfig holds Azure OpenAI connection settings.
type AzureConfig struct {
	Endpoint        string `yaml:"endpoint" koanf:"endpoint"`
	APIKey          string `yaml:"api_key" koanf:"api_key"`
	Deployment      string `yaml:"deployment" koanf:"deployment"`
	EmbedDeployment string `yaml:"embed_deployment" koanf:"embed_deployment"`
	APIVersion      string `yaml:"api_version" koanf:"api_version"`
}

// IngestConfig controls the knowledge-base ingestion pipeline.
type IngestConfig struct {
	Include     []string `yaml:"include" koanf:"include"`
	Exclude     []string `yaml:"exclude" koanf:"exclude"`
	ChunkTokens int      `yaml:"chunk_tokens" koanf:"chunk_tokens"`
	URLPrefix   string   `yaml:"url_prefix" koanf:"url_prefix"`
}

// Config is the top-level reasond configuration, corresponding to reason.yml
// overlaid with environment variables.
type Config struct {
	Port          int            `yaml:"port" koanf:"port"`
	InternalToken string         `yaml:"internal_token" koanf:"internal_token"`
	Backend       StorageBackend `yaml:"backend" koanf:"backend"`
	PGConn        string         `yaml:"pg_conn" koanf:"pg_conn"`
	DataDir       string         `yaml:"data_dir" koanf:"data_dir"`
	Azure         AzureConfig    `yaml:"azure" koanf:"azure"`
	TopK          int            `yaml:"top_k" koanf:"top_k"`
	Dimensions    int            `yaml:"dimensions" koanf:"dimensions"`
	CompletionRPM int            `yaml:"completion_rpm" koanf:"completion_rpm"`
	Ingest        IngestConfig   `yaml:"ingest" koanf:"ingest"`
	AllowAll      bool           `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
