package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reviewlens/reviewlens/internal/config"
)

// displayNames is the full set of known provider ids, registered or not.
var displayNames = map[string]string{
	"openai":      "OpenAI GPT-4o-mini",
	"anthropic":   "Claude 3.5 Haiku",
	"deepseek":    "DeepSeek Coder V2",
	"mercury":     "Mercury Fast LLM",
	"gemini":      "Gemini 2.0 Flash",
	"huggingface": "Hugging Face (Mixtral)",
}

// Registry holds the clients whose credentials were present at startup.
// It is constructed once per process and immutable afterwards.
type Registry struct {
	clients map[string]Client
	order   []string
	logger  *slog.Logger
}

// NewRegistry probes the configuration for each known backend family and
// registers only those with a credential. A construction failure for one
// backend never prevents the others from registering.
func NewRegistry(ctx context.Context, cfg *config.Config) *Registry {
	r := &Registry{
		clients: make(map[string]Client),
		logger:  slog.Default().With("component", "llm"),
	}

	register := func(id string, build func() (Client, error)) {
		client, err := build()
		if err != nil {
			r.logger.Warn("provider initialization failed", "provider", id, "error", err)
			return
		}
		r.clients[id] = client
		r.order = append(r.order, id)
		r.logger.Info("provider registered", "provider", id, "model", client.ModelID())
	}

	p := cfg.Providers
	if p.OpenAIKey != "" {
		register("openai", func() (Client, error) { return NewOpenAIClient(p.OpenAIKey), nil })
	}
	if p.AnthropicKey != "" {
		register("anthropic", func() (Client, error) { return NewAnthropicClient(p.AnthropicKey), nil })
	}
	if p.DeepSeekKey != "" {
		register("deepseek", func() (Client, error) { return NewDeepSeekClient(p.DeepSeekKey), nil })
	}
	if key := p.MercuryCredential(); key != "" {
		register("mercury", func() (Client, error) { return NewMercuryClient(key), nil })
	}
	if p.GeminiKey != "" {
		register("gemini", func() (Client, error) { return NewGeminiClient(ctx, p.GeminiKey) })
	}
	if token := p.HuggingFaceCredential(); token != "" {
		register("huggingface", func() (Client, error) { return NewHuggingFaceClient(token), nil })
	}

	if len(r.order) == 0 {
		r.logger.Warn("no provider credentials found; analysis requests will fail")
	}
	return r
}

// NewStaticRegistry builds a registry from pre-constructed clients, for
// callers that manage credentials themselves.
func NewStaticRegistry(clients ...Client) *Registry {
	r := &Registry{
		clients: make(map[string]Client, len(clients)),
		logger:  slog.Default().With("component", "llm"),
	}
	for _, client := range clients {
		r.clients[client.ID()] = client
		r.order = append(r.order, client.ID())
	}
	return r
}

// Available returns the id to display-name mapping of usable providers.
func (r *Registry) Available() map[string]string {
	names := make(map[string]string, len(r.clients))
	for id, client := range r.clients {
		names[id] = client.DisplayName()
	}
	return names
}

// IDs returns registered provider ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Client resolves a provider id to its client. A known provider without a
// credential and an unknown id are distinct configuration errors.
func (r *Registry) Client(id string) (Client, error) {
	if client, ok := r.clients[id]; ok {
		return client, nil
	}
	if _, known := displayNames[id]; known {
		return nil, fmt.Errorf("%w: %s", ErrNoCredential, id)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
}
