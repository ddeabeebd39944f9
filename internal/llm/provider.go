package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for chat completion backends.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// UpstreamError reports a completion-service failure. Unlike retrieval
// failures, these are never swallowed; they surface to the caller as a
// server error.
type UpstreamError struct {
	Status int // upstream HTTP status, 0 when the request never completed
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion upstream returned %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("completion upstream unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
