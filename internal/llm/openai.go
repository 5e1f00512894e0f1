package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIModel = "gpt-4o-mini"

// OpenAIClient talks to the hosted OpenAI chat completion API.
type OpenAIClient struct {
	client *openai.Client
	logger *slog.Logger
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		logger: slog.Default().With("component", "llm", "provider", "openai"),
	}
}

func (c *OpenAIClient) ID() string          { return "openai" }
func (c *OpenAIClient) DisplayName() string { return displayNames["openai"] }
func (c *OpenAIClient) ModelID() string     { return openAIModel }

func (c *OpenAIClient) Query(ctx context.Context, prompt string, temperature float64) (Response, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(openAIModel),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Temperature: openai.F(temperature),
		MaxTokens:   openai.F(int64(2000)),
	})
	if err != nil {
		return Response{}, fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("openai returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("openai completion",
		"model", openAIModel,
		"prompt_length", len(prompt),
		"response_length", len(content),
		"tokens_used", resp.Usage.TotalTokens,
	)
	return Response{Content: content, Model: c.DisplayName()}, nil
}
