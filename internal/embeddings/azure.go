package embeddings

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// maxBatchSize caps texts per embedding API call.
const maxBatchSize = 100

// embedTimeout bounds a single embedding API call.
const embedTimeout = 30 * time.Second

// AzureEmbedder generates embeddings via an Azure OpenAI embedding deployment.
type AzureEmbedder struct {
	client     *openai.Client
	deployment string
	dimensions int
}

// NewAzureEmbedder creates an embedder for the given Azure OpenAI endpoint
// and embedding deployment. dimensions declares the vector width of the
// deployed model (1536 for text-embedding-3-small).
func NewAzureEmbedder(endpoint, apiKey, deployment, apiVersion string, dimensions int) *AzureEmbedder {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	cfg.AzureModelMapperFunc = func(model string) string { return model }

	return &AzureEmbedder{
		client:     openai.NewClientWithConfig(cfg),
		deployment: deployment,
		dimensions: dimensions,
	}
}

func (e *AzureEmbedder) Name() string {
	return e.deployment
}

func (e *AzureEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *AzureEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		vectors, err := e.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}

	return all, nil
}

func (e *AzureEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: batch,
		Model: openai.EmbeddingModel(e.deployment),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("embedding service returned %d vectors, expected %d", len(resp.Data), len(batch))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
