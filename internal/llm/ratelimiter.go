package llm

import (
	"context"
	"sync"
	"time"
)

// PacedProvider wraps a Provider so that completion calls are spaced out to
// at most rpm requests per minute, matching Azure OpenAI's per-minute
// deployment quotas.
type PacedProvider struct {
	provider Provider
	interval time.Duration

	mu     sync.Mutex
	nextAt time.Time
}

// NewPacedProvider wraps the given provider with request pacing. rpm values
// <= 0 disable pacing and return the provider unchanged.
func NewPacedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &PacedProvider{
		provider: provider,
		interval: time.Minute / time.Duration(rpm),
	}
}

func (p *PacedProvider) Name() string {
	return p.provider.Name()
}

func (p *PacedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.reserve(ctx); err != nil {
		return nil, err
	}
	return p.provider.Complete(ctx, req)
}

// reserve claims the next available send slot and sleeps until it arrives.
func (p *PacedProvider) reserve(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	slot := p.nextAt
	if slot.Before(now) {
		slot = now
	}
	p.nextAt = slot.Add(p.interval)
	p.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
