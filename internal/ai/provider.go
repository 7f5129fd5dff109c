// Package ai wraps chat-completion providers behind one interface.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var ErrEmptyResponse = errors.New("ai provider returned empty response")

// Request is one single-turn completion.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSON asks the provider for a JSON object when it supports a response format.
	JSON bool
}

type Completion struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Embedder turns text into a vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type retryProvider struct {
	Provider
	attempts int
	delay    time.Duration
	logger   *zap.Logger
}

// WithRetry retries failed completions up to attempts times with a linear backoff.
// ErrEmptyResponse and context errors are not retried.
func WithRetry(p Provider, attempts int, delay time.Duration, logger *zap.Logger) Provider {
	if attempts <= 1 {
		return p
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &retryProvider{Provider: p, attempts: attempts, delay: delay, logger: logger}
}

func (r *retryProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	var lastErr error

	for attempt := 1; attempt <= r.attempts; attempt++ {
		out, err := r.Provider.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if errors.Is(err, ErrEmptyResponse) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		if attempt < r.attempts {
			r.logger.Warn("ai completion failed, retrying",
				zap.String("provider", r.Name()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if err := sleep(ctx, r.delay*time.Duration(attempt)); err != nil {
				return nil, fmt.Errorf("context cancelled: %w", err)
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", r.attempts, lastErr)
}
