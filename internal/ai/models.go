package ai

// modelChains holds a provider's preferred narration model followed by the
// alternatives tried, in order, when a model is reported missing.
var modelChains = map[string][]string{
	ProviderOpenRouter: {
		"google/gemini-2.5-flash",
		"google/gemini-2.0-flash-001",
		"google/gemini-flash-1.5",
		"google/gemini-pro-1.5",
	},
	ProviderOllama: {
		"llama3.1:8b",
		"llama3:latest",
		"mistral:7b-instruct",
	},
}

// DefaultModel returns the preferred narration model for provider.
func DefaultModel(provider string) string {
	if chain := modelChains[provider]; len(chain) > 0 {
		return chain[0]
	}
	return ""
}

// FallbackModels returns the alternative models for provider, excluding
// primary. An empty primary means the provider default.
func FallbackModels(provider, primary string) []string {
	if primary == "" {
		primary = DefaultModel(provider)
	}
	var out []string
	for _, m := range modelChains[provider] {
		if m != primary {
			out = append(out, m)
		}
	}
	return out
}
