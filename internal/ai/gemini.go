package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	geminiDefaultModel = "gemini-2.5-flash"
	geminiEmbedModel   = "text-embedding-004"
	// EmbeddingSize is the vector length produced by the Gemini embedding model.
	EmbeddingSize = 768
	maxEmbedChars = 40000
)

// GeminiProvider implements Provider and Embedder on the Gemini API.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	embedModel string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = geminiDefaultModel
	}

	return &GeminiProvider{
		client:     client,
		model:      model,
		embedModel: geminiEmbedModel,
	}, nil
}

func (g *GeminiProvider) Name() string  { return "gemini" }
func (g *GeminiProvider) Model() string { return g.model }

func (g *GeminiProvider) Complete(ctx context.Context, req Request) (*Completion, error) {
	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}

	out := &Completion{Text: text, Model: g.model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// Embed implements Embedder.
func (g *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
