package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProviderSelectsBackend(t *testing.T) {
	gemini, err := NewProvider(ProviderGemini, "key")
	assert.NoError(t, err)
	assert.IsType(t, &GeminiProvider{}, gemini)

	cohere, err := NewProvider("Cohere", "key")
	assert.NoError(t, err)
	assert.IsType(t, &CohereProvider{}, cohere)

	anthropic, err := NewProvider(ProviderAnthropic, "key")
	assert.NoError(t, err)
	assert.IsType(t, &AnthropicProvider{}, anthropic)
}

func TestNewProviderDefaultsToGemini(t *testing.T) {
	provider, err := NewProvider("", "key")
	assert.NoError(t, err)
	assert.IsType(t, &GeminiProvider{}, provider)
}

func TestNewProviderRejectsUnknownName(t *testing.T) {
	provider, err := NewProvider("openai", "key")
	assert.Nil(t, provider)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNewProviderRejectsMissingKey(t *testing.T) {
	provider, err := NewProvider(ProviderGemini, "   ")
	assert.Nil(t, provider)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
