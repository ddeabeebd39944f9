package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// completionTimeout bounds a single completion call.
const completionTimeout = 90 * time.Second

// AzureProvider implements Provider against an Azure OpenAI deployment.
type AzureProvider struct {
	client     *openai.Client
	deployment string
}

// NewAzureProvider creates a provider for the given Azure OpenAI endpoint
// and chat deployment. apiVersion may be empty to use the client default.
func NewAzureProvider(endpoint, apiKey, deployment, apiVersion string) *AzureProvider {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	// Model names are already deployment names; no mapping needed.
	cfg.AzureModelMapperFunc = func(model string) string { return model }

	return &AzureProvider{
		client:     openai.NewClientWithConfig(cfg),
		deployment: deployment,
	}
}

func (p *AzureProvider) Name() string {
	return "azure-openai"
}

func (p *AzureProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.deployment
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		Stream:      false,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{Status: apiErr.HTTPStatusCode, Err: err}
		}
		return nil, &UpstreamError{Err: err}
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	return &CompletionResponse{
		Content:      content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		FinishReason: finishReason,
	}, nil
}
