package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/reviewlens/internal/config"
)

func TestRegistryOnlyRegistersCredentialedProviders(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.OpenAIKey = "sk-test"
	cfg.Providers.DeepSeekKey = "ds-test"

	r := NewRegistry(context.Background(), cfg)

	assert.Equal(t, []string{"openai", "deepseek"}, r.IDs())
	assert.Equal(t, map[string]string{
		"openai":   "OpenAI GPT-4o-mini",
		"deepseek": "DeepSeek Coder V2",
	}, r.Available())

	client, err := r.Client("deepseek")
	require.NoError(t, err)
	assert.Equal(t, "deepseek", client.ID())
}

func TestRegistryDistinguishesMissingCredentialFromUnknownID(t *testing.T) {
	r := NewRegistry(context.Background(), &config.Config{})

	_, err := r.Client("anthropic")
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = r.Client("not-a-provider")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Empty(t, r.IDs())
}

func TestRegistryAcceptsCredentialAliases(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.InceptionKey = "inc-test"
	cfg.Providers.HFToken = "hf-test"

	r := NewRegistry(context.Background(), cfg)

	assert.Equal(t, []string{"mercury", "huggingface"}, r.IDs())
}

func TestRegistryIDsReturnsACopy(t *testing.T) {
	cfg := &config.Config{}
	cfg.Providers.OpenAIKey = "sk-test"

	r := NewRegistry(context.Background(), cfg)
	ids := r.IDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"openai"}, r.IDs())
}

func TestStaticRegistryPreservesOrder(t *testing.T) {
	r := NewStaticRegistry(
		&CompatClient{id: "deepseek", display: "DeepSeek Coder V2"},
		&CompatClient{id: "mercury", display: "Mercury Fast LLM"},
	)

	assert.Equal(t, []string{"deepseek", "mercury"}, r.IDs())
	client, err := r.Client("mercury")
	require.NoError(t, err)
	assert.Equal(t, "Mercury Fast LLM", client.DisplayName())
}
