package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	anthropicModel    = "claude-3-5-haiku-20241022"
	// Older accounts may only resolve the previous haiku generation.
	anthropicLegacyModel = "claude-3-haiku-20240307"
)

// AnthropicClient talks to the Anthropic messages API over plain HTTP.
type AnthropicClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		endpoint:   anthropicEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default().With("component", "llm", "provider", "anthropic"),
	}
}

func (c *AnthropicClient) ID() string          { return "anthropic" }
func (c *AnthropicClient) DisplayName() string { return displayNames["anthropic"] }
func (c *AnthropicClient) ModelID() string     { return anthropicModel }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) Query(ctx context.Context, prompt string, temperature float64) (Response, error) {
	cands := []candidate{
		{Endpoint: c.endpoint, Model: anthropicModel},
		{Endpoint: c.endpoint, Model: anthropicLegacyModel},
	}

	content, cand, err := runFallback(ctx, cands, func(ctx context.Context, cand candidate) (string, error) {
		return c.complete(ctx, cand, prompt, temperature)
	})
	if err != nil {
		return Response{}, fmt.Errorf("anthropic request failed: %w", err)
	}

	c.logger.Debug("anthropic completion", "model", cand.Model, "response_length", len(content))
	return Response{Content: content, Model: c.DisplayName()}, nil
}

func (c *AnthropicClient) complete(ctx context.Context, cand candidate, prompt string, temperature float64) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       cand.Model,
		MaxTokens:   2000,
		Temperature: temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cand.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(data))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s: %s", parsed.Error.Type, parsed.Error.Message)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty content in response")
	}
	return parsed.Content[0].Text, nil
}

func truncateBody(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
