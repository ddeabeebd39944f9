package reason

import (
	"context"
	"fmt"
	"log"

	"github.com/cisohq/reasond/internal/llm"
	"github.com/cisohq/reasond/internal/retrieval"
)

// completionTemperature keeps generation close to the retrieved context.
const completionTemperature = 0.2

// Engine runs the reasoning pipeline for one turn: normalize, retrieve,
// assemble, complete, shape. Stages run strictly in that order.
type Engine struct {
	retriever *retrieval.Retriever
	provider  llm.Provider
	topK      int
}

// NewEngine creates an Engine. topK <= 0 uses the retriever default.
func NewEngine(retriever *retrieval.Retriever, provider llm.Provider, topK int) *Engine {
	return &Engine{
		retriever: retriever,
		provider:  provider,
		topK:      topK,
	}
}

// Respond handles one reasoning turn. Retrieval failures degrade silently to
// an ungrounded answer; completion failures propagate (as *llm.UpstreamError)
// because there is no answer without one.
func (e *Engine) Respond(ctx context.Context, req Request) (*Response, error) {
	channel := req.Channel
	if channel == "" {
		channel = "text"
	}
	org := req.Org
	if org == "" {
		org = "default"
	}

	utterance := NormalizeEvents(req.Events)
	if utterance == "" {
		utterance = req.Text
	}

	// An empty utterance short-circuits retrieval; the model still gets a
	// turn so the caller receives a well-formed response.
	var chunks []retrieval.Chunk
	if utterance != "" {
		chunks = e.retriever.Retrieve(ctx, org, utterance, e.topK)
	}

	completion, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    BuildMessages(utterance, chunks),
		Temperature: completionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("completing turn for session %q: %w", req.SessionID, err)
	}
	answer := completion.Content

	log.Printf("reason: org=%s session=%s channel=%s chunks=%d answer_len=%d",
		org, req.SessionID, channel, len(chunks), len(answer))

	return &Response{
		SessionID: req.SessionID,
		Messages:  []AssistantMessage{{Role: "assistant", Text: answer}},
		Actions:   CraftActions(channel, answer),
		Citations: Citations(chunks),
	}, nil
}
