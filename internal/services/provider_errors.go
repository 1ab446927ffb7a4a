package services

import (
	"log"
	"os"
	"strings"

	"lingozo_go_backend/internal/ai"
	"lingozo_go_backend/internal/errors"
	"lingozo_go_backend/internal/models"
)

// classifyProviderError maps an upstream LLM failure to the API error
// taxonomy. Adapters propagate backend errors unmodified, so classification
// happens here, by sniffing the upstream status or message. The raw detail
// is logged server-side; callers only see the generic message.
func classifyProviderError(err error) *errors.CustomError {
	if err == nil {
		return nil
	}
	log.Printf("AI provider call failed: %v", err)

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status 429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "overloaded"):
		return errors.New429Error("The AI service is handling too many requests right now. Please try again in a moment.")
	case strings.Contains(msg, "status 402") || strings.Contains(msg, "quota") || strings.Contains(msg, "billing") || strings.Contains(msg, "insufficient credit"):
		return errors.New402Error("The AI service quota has been exhausted. Check the provider's billing settings.")
	default:
		// Auth/config problems included: detail stays server-side.
		return errors.New500Error(err)
	}
}

// resolveProviderKey picks the provider id and API key for a user: their
// own settings first, server-side env keys as fallback. An empty key is
// rejected by the factory with ai.ErrMissingAPIKey.
func resolveProviderKey(settings *models.UserSettings) (name, key string) {
	name = ai.ProviderGemini
	if settings != nil && settings.Provider != "" {
		name = strings.ToLower(settings.Provider)
	}

	if settings != nil {
		switch name {
		case ai.ProviderCohere:
			key = settings.CohereAPIKey
		case ai.ProviderAnthropic:
			key = settings.AnthropicAPIKey
		default:
			key = settings.GeminiAPIKey
		}
	}
	if key != "" {
		return name, key
	}

	switch name {
	case ai.ProviderCohere:
		return name, os.Getenv("COHERE_API_KEY")
	case ai.ProviderAnthropic:
		return name, os.Getenv("ANTHROPIC_API_KEY")
	default:
		return name, os.Getenv("GEMINI_API_KEY")
	}
}
