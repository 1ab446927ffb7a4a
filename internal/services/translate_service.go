package services

import (
	"context"
	"fmt"
	"log"

	"lingozo_go_backend/internal/ai"
	"lingozo_go_backend/internal/errors"
	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
)

// TranslateService serves single-word translations through the no-expiry
// translation cache.
type TranslateService struct {
	caches      CacheStore
	users       UserStore
	usage       UsageCounter
	newProvider ai.Factory
}

func NewTranslateService(caches CacheStore, users UserStore, usage UsageCounter, newProvider ai.Factory) *TranslateService {
	return &TranslateService{
		caches:      caches,
		users:       users,
		usage:       usage,
		newProvider: newProvider,
	}
}

// Translate returns the cached translation when one exists, bumping its hit
// counter; otherwise it asks the user's provider and caches the result.
func (s *TranslateService) Translate(ctx context.Context, userID uuid.UUID, word, targetLanguage string) (string, error) {
	if word == "" || targetLanguage == "" {
		return "", errors.New400Error("word and targetLanguage are required")
	}

	entry, err := s.caches.GetTranslationDB(word, targetLanguage)
	if err != nil {
		log.Printf("Translation cache lookup failed for %q: %v", word, err)
	}
	if entry != nil {
		if err := s.caches.IncrementTranslationHitDB(entry.ID); err != nil {
			log.Printf("Failed to increment translation hit count: %v", err)
		}
		return entry.Translation, nil
	}

	settings, err := s.users.GetSettingsByUserIDFromDB(userID)
	if err != nil {
		return "", errors.LogAndReturn500(fmt.Errorf("failed to load settings: %w", err))
	}

	providerName, apiKey := resolveProviderKey(settings)
	provider, err := s.newProvider(providerName, apiKey)
	if err != nil {
		return "", errors.LogAndReturn500(fmt.Errorf("failed to construct provider %q: %w", providerName, err))
	}

	translation, err := provider.Translate(ctx, word, targetLanguage)
	if err != nil {
		return "", classifyProviderError(err)
	}

	if err := s.caches.PutTranslationDB(&models.TranslationCache{
		Word:        word,
		Language:    targetLanguage,
		Translation: translation,
	}); err != nil {
		log.Printf("Translation cache insert skipped for %q: %v", word, err)
	}

	if err := s.usage.IncrementDaily(ctx, userID, UsageKindTranslation); err != nil {
		log.Printf("Failed to increment usage counter for user %s: %v", userID, err)
	}

	return translation, nil
}
