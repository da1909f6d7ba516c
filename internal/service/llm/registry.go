package llm

import (
	"fmt"
	"log/slog"

	"atelier/internal/config"
	"atelier/internal/service/llm/providers/anthropic"
	"atelier/internal/service/llm/providers/lorem"
)

// Registry resolves a model name to the provider that serves it.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// ProviderFor returns the first registered provider that supports the model.
func (r *Registry) ProviderFor(model string) (Provider, error) {
	if model == "" {
		return nil, fmt.Errorf("model name is empty")
	}
	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no provider supports model %q", model)
}

// SetupProviders builds the registry from configuration. The lorem mock is
// always registered so the workspace runs without API keys in dev.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	var providers []Provider

	if cfg.AnthropicAPIKey != "" {
		p, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("create anthropic provider: %w", err)
		}
		providers = append(providers, p)
		logger.Info("provider registered", "provider", p.Name())
	}

	providers = append(providers, lorem.NewProvider())

	registry := NewRegistry(providers...)
	if _, err := registry.ProviderFor(cfg.DefaultModel); err != nil {
		return nil, fmt.Errorf("default model %q unusable: %w", cfg.DefaultModel, err)
	}
	return registry, nil
}
