package ai

import (
	"context"
	"fmt"

	"fitai-backend/pkg/gemini"
	"fitai-backend/pkg/openrouter"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "openrouter" or "auto"

	GeminiAPIKey    string
	GeminiTextModel string

	OpenRouterAPIKey string
	OpenRouterModel  string
}

// DynamicConfig reads the provider and OpenRouter model on every call so admin
// settings take effect without a restart
type DynamicConfig struct {
	GeminiAPIKey       string
	GeminiTextModel    string
	OpenRouterAPIKey   string
	GetProvider        func() ProviderType
	GetOpenRouterModel func() string
}

// NewTextProvider creates a TextProvider based on the config.
// This is the factory function - switch AI provider by changing config.Provider
func NewTextProvider(cfg Config) (TextProvider, error) {
	return NewTextProviderWithDynamicConfig(DynamicConfig{
		GeminiAPIKey:       cfg.GeminiAPIKey,
		GeminiTextModel:    cfg.GeminiTextModel,
		OpenRouterAPIKey:   cfg.OpenRouterAPIKey,
		GetProvider:        func() ProviderType { return cfg.Provider },
		GetOpenRouterModel: func() string { return cfg.OpenRouterModel },
	})
}

// NewTextProviderWithDynamicConfig builds every configured provider once and
// picks between them per call
func NewTextProviderWithDynamicConfig(cfg DynamicConfig) (TextProvider, error) {
	r := &router{getProvider: cfg.GetProvider}
	if cfg.GeminiAPIKey != "" {
		r.gemini = gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiTextModel, "")
	}
	if cfg.OpenRouterAPIKey != "" {
		r.openrouter = openrouter.NewClientWithGetter(cfg.OpenRouterAPIKey, cfg.GetOpenRouterModel)
	}
	if r.gemini == nil && r.openrouter == nil {
		return nil, fmt.Errorf("GEMINI_API_KEY or OPENROUTER_API_KEY is required")
	}
	if r.getProvider == nil {
		r.getProvider = func() ProviderType { return ProviderAuto }
	}
	return r, nil
}

type router struct {
	gemini      TextProvider
	openrouter  TextProvider
	getProvider func() ProviderType
}

func (r *router) Generate(ctx context.Context, system, prompt string) (string, error) {
	switch r.getProvider() {
	case ProviderGemini:
		if r.gemini == nil {
			return "", fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return r.gemini.Generate(ctx, system, prompt)
	case ProviderOpenRouter:
		if r.openrouter == nil {
			return "", fmt.Errorf("OPENROUTER_API_KEY is required for OpenRouter provider")
		}
		return r.openrouter.Generate(ctx, system, prompt)
	default:
		// Gemini first, OpenRouter on failure
		return NewFallbackService(r.gemini, "gemini", r.openrouter, "openrouter").Generate(ctx, system, prompt)
	}
}
