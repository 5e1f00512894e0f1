package llm

import (
	"context"
	"errors"
)

// Response is the raw outcome of one successful provider call.
type Response struct {
	// Content is the unmodified model reply text.
	Content string

	// Model is the display name of the model that actually answered.
	// Fallback chains may answer with an alias of the primary model.
	Model string
}

// Client issues a single request to one LLM backend. Implementations run
// their own fixed fallback chain (alternate model names, alternate
// endpoints) before reporting failure, and must never panic on expected
// failure modes.
type Client interface {
	// Query sends a prompt and returns the reply or a consolidated error
	// that preserves every fallback attempt's failure reason.
	Query(ctx context.Context, prompt string, temperature float64) (Response, error)

	// ID is the stable registry id of the backend.
	ID() string

	// DisplayName is the human label shown in provider listings.
	DisplayName() string

	// ModelID is the primary model identity, used in cache keys.
	ModelID() string
}

var (
	// ErrUnknownProvider is returned for a provider id outside the known set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoCredential is returned when a known provider has no credential
	// configured in the environment.
	ErrNoCredential = errors.New("no credential configured for provider")

	// ErrNoProviders is returned when no backend registered at startup.
	ErrNoProviders = errors.New("no providers configured")
)
