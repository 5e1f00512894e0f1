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

	openai "github.com/sashabaranov/go-openai"
)

const (
	hfInferenceBase = "https://api-inference.huggingface.co/models"
	hfChatModel     = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	// Plain text-generation fallback when the chat endpoint rejects the model.
	hfFallbackModel = "microsoft/DialoGPT-medium"
)

// HuggingFaceClient talks to the hosted inference API. The chat completion
// surface is OpenAI-compatible; when it fails the client falls back to the
// plain text-generation endpoint with a smaller model.
type HuggingFaceClient struct {
	token      string
	base       string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHuggingFaceClient(token string) *HuggingFaceClient {
	return &HuggingFaceClient{
		token:      token,
		base:       hfInferenceBase,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default().With("component", "llm", "provider", "huggingface"),
	}
}

func (c *HuggingFaceClient) ID() string          { return "huggingface" }
func (c *HuggingFaceClient) DisplayName() string { return displayNames["huggingface"] }
func (c *HuggingFaceClient) ModelID() string     { return hfChatModel }

func (c *HuggingFaceClient) Query(ctx context.Context, prompt string, temperature float64) (Response, error) {
	if temperature <= 0 {
		temperature = 0.1
	}

	content, chatErr := c.chatCompletion(ctx, prompt, temperature)
	if chatErr == nil {
		return Response{Content: content, Model: c.DisplayName()}, nil
	}
	c.logger.Warn("chat completion failed, trying text generation", "error", chatErr)

	content, genErr := c.textGeneration(ctx, prompt, temperature)
	if genErr != nil {
		return Response{}, fmt.Errorf("hugging face chat completion failed: %v; text generation fallback also failed: %v", chatErr, genErr)
	}
	return Response{Content: content, Model: "Hugging Face (DialoGPT)"}, nil
}

func (c *HuggingFaceClient) chatCompletion(ctx context.Context, prompt string, temperature float64) (string, error) {
	cfg := openai.DefaultConfig(c.token)
	cfg.BaseURL = c.base + "/" + hfChatModel + "/v1"
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: hfChatModel,
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

type hfGenerationRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens int     `json:"max_new_tokens"`
		Temperature  float64 `json:"temperature"`
	} `json:"parameters"`
}

type hfGenerationResult struct {
	GeneratedText string `json:"generated_text"`
}

func (c *HuggingFaceClient) textGeneration(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := hfGenerationRequest{Inputs: prompt}
	reqBody.Parameters.MaxNewTokens = 2000
	reqBody.Parameters.Temperature = temperature

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+hfFallbackModel, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

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

	var results []hfGenerationResult
	if err := json.Unmarshal(data, &results); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if len(results) == 0 || results[0].GeneratedText == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return results[0].GeneratedText, nil
}
