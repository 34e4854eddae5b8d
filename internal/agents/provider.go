// Package agents holds the AI collaborators that produce post
// material: topic research, post drafting, and image generation.
package agents

import (
	"context"
	"fmt"
	"strings"

	"postflow/internal/config"
)

// Provider is a non-streaming chat completion backend.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewProvider selects a chat backend by name. Groq exposes an
// OpenAI-compatible API and shares the OpenAI client.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		return newOpenAIProvider(cfg.OpenAIAPIKey, "https://api.openai.com/v1", "gpt-4o-mini"), nil
	case "groq":
		return newOpenAIProvider(cfg.GroqAPIKey, "https://api.groq.com/openai/v1", "llama3-groq-70b-8192-tool-use-preview"), nil
	case "anthropic":
		return newAnthropicProvider(cfg.AnthropicAPIKey, "claude-3-5-sonnet-20240620"), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
