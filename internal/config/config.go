package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Providers ProviderConfig
	Cache     CacheConfig
	GitHub    GitHubConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8000"`
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
}

// ProviderConfig holds one credential per supported backend family.
// Presence or absence of a credential is the only signal the provider
// registry uses; fallback endpoint and model lists are fixed constants.
type ProviderConfig struct {
	OpenAIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicKey string `envconfig:"ANTHROPIC_API_KEY"`
	DeepSeekKey  string `envconfig:"DEEPSEEK_API_KEY"`
	GeminiKey    string `envconfig:"GEMINI_API_KEY"`

	// Mercury is reachable with either vendor key name.
	MercuryKey   string `envconfig:"MERCURY_API_KEY"`
	InceptionKey string `envconfig:"INCEPTION_API_KEY"`

	// Hugging Face tooling has used several variable names over time.
	HuggingFaceKey      string `envconfig:"HUGGINGFACE_API_KEY"`
	HuggingFaceHubToken string `envconfig:"HUGGINGFACEHUB_API_TOKEN"`
	HFToken             string `envconfig:"HF_TOKEN"`
}

// MercuryCredential returns the Mercury/Inception API key, if any.
func (p ProviderConfig) MercuryCredential() string {
	if p.MercuryKey != "" {
		return p.MercuryKey
	}
	return p.InceptionKey
}

// HuggingFaceCredential returns the Hugging Face token, if any.
func (p ProviderConfig) HuggingFaceCredential() string {
	switch {
	case p.HuggingFaceKey != "":
		return p.HuggingFaceKey
	case p.HuggingFaceHubToken != "":
		return p.HuggingFaceHubToken
	default:
		return p.HFToken
	}
}

type CacheConfig struct {
	Directory string `envconfig:"CACHE_DIR" default:"./cache"`
}

type GitHubConfig struct {
	// Token is optional; unauthenticated requests work with lower limits.
	Token string `envconfig:"GITHUB_TOKEN"`
}

func LoadConfig() (*Config, error) {
	// Best effort: a missing .env just means the environment is already set.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	slog.Info("configuration loaded successfully")
	return &cfg, nil
}
