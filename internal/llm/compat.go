package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// CompatClient talks to OpenAI-compatible chat completion APIs. DeepSeek and
// Mercury both expose this wire shape behind their own endpoints and model
// names, so one client covers the family; only the candidate chain differs.
type CompatClient struct {
	id         string
	display    string
	apiKey     string
	candidates []candidate
	logger     *slog.Logger
}

func newCompatClient(id, apiKey string, candidates []candidate) *CompatClient {
	return &CompatClient{
		id:         id,
		display:    displayNames[id],
		apiKey:     apiKey,
		candidates: candidates,
		logger:     slog.Default().With("component", "llm", "provider", id),
	}
}

// NewDeepSeekClient targets the DeepSeek API. The coder-v2 model name has a
// legacy alias that some accounts still resolve, so both are tried.
func NewDeepSeekClient(apiKey string) *CompatClient {
	return newCompatClient("deepseek", apiKey, []candidate{
		{Endpoint: "https://api.deepseek.com/v1", Model: "deepseek-coder-v2"},
		{Endpoint: "https://api.deepseek.com/v1", Model: "deepseek-coder"},
	})
}

// NewMercuryClient targets the Mercury/Inception API. The service has been
// reachable under several base URLs and model names; the chain is a nested
// endpoints x models search in fixed priority order.
func NewMercuryClient(apiKey string) *CompatClient {
	endpoints := []string{
		"https://api.inceptionlabs.ai/v1",
		"https://api.mercury.ai/v1",
		"https://api.mercury.ai",
	}
	models := []string{"mercury", "mercury-fast", "mercury-pro", "gpt-4", "gpt-3.5-turbo"}

	var cands []candidate
	for _, endpoint := range endpoints {
		for _, model := range models {
			cands = append(cands, candidate{Endpoint: endpoint, Model: model})
		}
	}
	return newCompatClient("mercury", apiKey, cands)
}

func (c *CompatClient) ID() string          { return c.id }
func (c *CompatClient) DisplayName() string { return c.display }
func (c *CompatClient) ModelID() string     { return c.candidates[0].Model }

func (c *CompatClient) Query(ctx context.Context, prompt string, temperature float64) (Response, error) {
	content, cand, err := runFallback(ctx, c.candidates, func(ctx context.Context, cand candidate) (string, error) {
		return c.complete(ctx, cand, prompt, temperature)
	})
	if err != nil {
		return Response{}, fmt.Errorf("%s request failed: %w", c.id, err)
	}

	c.logger.Debug("chat completion",
		"endpoint", cand.Endpoint,
		"model", cand.Model,
		"response_length", len(content),
	)
	return Response{Content: content, Model: c.display}, nil
}

func (c *CompatClient) complete(ctx context.Context, cand candidate, prompt string, temperature float64) (string, error) {
	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = cand.Endpoint
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cand.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(temperature),
		MaxTokens:   2000,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
