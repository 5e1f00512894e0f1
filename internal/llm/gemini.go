package llm

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.0-flash"

// GeminiClient wraps Google's Generative AI SDK.
type GeminiClient struct {
	client *genai.Client
	logger *slog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		logger: slog.Default().With("component", "llm", "provider", "gemini"),
	}, nil
}

func (c *GeminiClient) ID() string          { return "gemini" }
func (c *GeminiClient) DisplayName() string { return displayNames["gemini"] }
func (c *GeminiClient) ModelID() string     { return geminiModel }

func (c *GeminiClient) Query(ctx context.Context, prompt string, temperature float64) (Response, error) {
	genConfig := &genai.GenerateContentConfig{
		Temperature:     ptrFloat32(temperature),
		MaxOutputTokens: 2000,
	}

	resp, err := c.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), genConfig)
	if err != nil {
		return Response{}, fmt.Errorf("gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return Response{}, fmt.Errorf("gemini returned no candidates")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return Response{}, fmt.Errorf("gemini returned no content parts")
	}

	text := cand.Content.Parts[0].Text
	c.logger.Debug("gemini completion", "prompt_length", len(prompt), "response_length", len(text))
	return Response{Content: text, Model: c.DisplayName()}, nil
}

func ptrFloat32(f float64) *float32 {
	f32 := float32(f)
	return &f32
}
