package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"matchmycv/backend/internal/config"
)

// NewProvider builds the provider selected by cfg.Provider, wrapped with retries.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		p, err = NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
	case config.ProviderAnthropic:
		p, err = NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL)
	case config.ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case config.ProviderOpenRouter:
		p, err = NewOpenRouterProvider(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithRetry(p, cfg.MaxRetries, cfg.RetryDelay, logger), nil
}
