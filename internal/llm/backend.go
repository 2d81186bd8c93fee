// Package llm abstracts the text-generation providers used for follow-up
// drafting. Backends are interchangeable: the orchestrator never branches
// on provider-specific output shapes.
package llm

import (
	"context"
	"fmt"

	"github.com/kingcader/attache/internal/config"
)

// Backend is a text-completion provider. Generate sends a fixed system
// instruction plus an assembled user message and returns the raw text
// result. Callers treat the result as untrusted until validated.
type Backend interface {
	// Name identifies the provider, e.g. "openai" or "anthropic".
	Name() string

	// Model returns the concrete model identifier used for generation.
	Model() string

	// Generate performs one blocking completion call. A failed call fails
	// once, immediately; retries are the caller's responsibility.
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ForConfig selects and constructs the configured backend.
func ForConfig(cfg config.AIConfig) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("llm: openai backend requires an API key")
		}
		return NewOpenAI(cfg.OpenAIKey, cfg.Model), nil
	case config.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("llm: anthropic backend requires an API key")
		}
		return NewAnthropic(cfg.AnthropicKey, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
