package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eduardolat/openroutergo"
)

// OpenRouterProvider routes completions through OpenRouter.
type OpenRouterProvider struct {
	client *openroutergo.Client
	model  string
}

func NewOpenRouterProvider(apiKey, model string) (*OpenRouterProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}

	client, err := openroutergo.
		NewClient().
		WithAPIKey(apiKey).
		Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create openrouter client: %w", err)
	}

	return &OpenRouterProvider{client: client, model: model}, nil
}

func (p *OpenRouterProvider) Name() string  { return "openrouter" }
func (p *OpenRouterProvider) Model() string { return p.model }

type openRouterResult struct {
	text string
	err  error
}

// Complete runs the request in the background so ctx cancellation returns promptly;
// the client does not accept a context.
func (p *OpenRouterProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan openRouterResult, 1)
	go func() {
		builder := p.client.NewChatCompletion().WithModel(p.model)
		if req.System != "" {
			builder = builder.WithSystemMessage(req.System)
		}
		_, resp, err := builder.WithUserMessage(req.Prompt).Execute()
		if err != nil {
			done <- openRouterResult{err: fmt.Errorf("openrouter completion: %w", err)}
			return
		}
		if len(resp.Choices) == 0 {
			done <- openRouterResult{err: ErrEmptyResponse}
			return
		}
		done <- openRouterResult{text: resp.Choices[0].Message.Content}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return nil, ErrEmptyResponse
		}
		return &Completion{Text: text, Model: p.model}, nil
	}
}
