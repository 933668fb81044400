package llm

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultRetries = 2
	defaultBackoff = time.Second
)

// RetryProvider wraps a Provider and retries failed completions a fixed
// number of times with exponential backoff. Context cancellation aborts the
// wait between attempts.
type RetryProvider struct {
	inner   Provider
	retries int
	backoff time.Duration
}

// NewRetryProvider wraps inner with retry behavior. retries is the number of
// additional attempts after the first failure; values below zero select the
// default of 2.
func NewRetryProvider(inner Provider, retries int) *RetryProvider {
	if retries < 0 {
		retries = defaultRetries
	}
	return &RetryProvider{inner: inner, retries: retries, backoff: defaultBackoff}
}

func (p *RetryProvider) CreateCompletion(ctx context.Context, model string, systemMsg string, messages []Message, tools []ToolDefinition) (*Message, error) {
	var lastErr error
	delay := p.backoff
	for attempt := 0; attempt <= p.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		msg, err := p.inner.CreateCompletion(ctx, model, systemMsg, messages, tools)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("completion failed after %d attempts: %w", p.retries+1, lastErr)
}
