package ai

import (
	"fmt"
	"strings"
)

const (
	ProviderGemini    = "gemini"
	ProviderCohere    = "cohere"
	ProviderAnthropic = "anthropic"
)

// Factory constructs a Provider for an identifier and API key. Injected into
// services so tests can substitute a fake backend.
type Factory func(name, apiKey string) (Provider, error)

// NewProvider is the default Factory.
func NewProvider(name, apiKey string) (Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderGemini, "":
		return NewGeminiProvider(apiKey), nil
	case ProviderCohere:
		return NewCohereProvider(apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
}
