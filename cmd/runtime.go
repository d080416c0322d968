package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/dataqa-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/dataqa-cli/internal/config"
	"github.com/KaramelBytes/dataqa-cli/internal/insights"
	"github.com/KaramelBytes/dataqa-cli/internal/pipeline"
	"github.com/KaramelBytes/dataqa-cli/internal/quality"
)

// normalizeProvider maps aliases onto registered provider names.
func normalizeProvider(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "openrouter", "google", "gemini":
		return ai.ProviderOpenRouter
	case "ollama", "local":
		return ai.ProviderOllama
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func runtimeConfig(c *cfgpkg.Global) ai.RuntimeConfig {
	rc := ai.RuntimeConfig{
		HTTPTimeout: 60 * time.Second,
		RetryMax:    3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
		APIKey:      c.APIKey,
		Host:        c.OllamaHost,
	}
	if c.HTTPTimeoutSec > 0 {
		rc.HTTPTimeout = time.Duration(c.HTTPTimeoutSec) * time.Second
	}
	if c.RetryMaxAttempts > 0 {
		rc.RetryMax = c.RetryMaxAttempts
	}
	if c.RetryBaseDelayMs > 0 {
		rc.BaseDelay = time.Duration(c.RetryBaseDelayMs) * time.Millisecond
	}
	if c.RetryMaxDelayMs > 0 {
		rc.MaxDelay = time.Duration(c.RetryMaxDelayMs) * time.Millisecond
	}
	return rc
}

// buildNarrator returns the AI narrator for the configured provider, or nil
// when the provider cannot be used (e.g. OpenRouter without an API key).
func buildNarrator(c *cfgpkg.Global) (insights.Narrator, error) {
	provider := normalizeProvider(c.Provider)
	if provider == ai.ProviderOpenRouter && c.APIKey == "" {
		return nil, nil
	}
	rt, err := ai.NewRuntime(provider, runtimeConfig(c))
	if err != nil {
		return nil, err
	}
	model := c.Model
	if model == "" {
		model = ai.DefaultModel(provider)
	}
	fallbacks := c.FallbackModels
	if len(fallbacks) == 0 {
		fallbacks = ai.FallbackModels(provider, model)
	}
	return insights.AI{
		Runtime:        rt,
		Model:          model,
		FallbackModels: fallbacks,
		MaxTokens:      c.MaxTokens,
		Temperature:    c.Temperature,
	}, nil
}

// newPipeline builds the analysis pipeline. The AI narrator is only wired
// when wantAI is set.
func newPipeline(wantAI bool) (*pipeline.Pipeline, error) {
	var narrator insights.Narrator
	if wantAI {
		c := currentConfig()
		n, err := buildNarrator(c)
		if err != nil {
			return nil, fmt.Errorf("configure insights: %w", err)
		}
		if n == nil {
			slog.Warn("AI insights need an API key (set DATAQA_API_KEY); using rule-based insights", "provider", c.Provider)
		}
		narrator = n
	}
	return pipeline.New(quality.NewAnalyzer(), narrator), nil
}
