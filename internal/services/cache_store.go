package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponseCacheTTL is how long a cached chat turn stays servable.
const ResponseCacheTTL = 24 * time.Hour

// ResponseCacheKey derives the deterministic cache key for a chat turn:
// chat id plus the message text lower-cased and trimmed, hashed to keep the
// column bounded.
func ResponseCacheKey(chatID uuid.UUID, message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", chatID, normalized)))
	return hex.EncodeToString(sum[:])
}

// NormalizeWord is the translation-cache key normalization.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// DefaultCacheStore implements CacheStore on GORM.
type DefaultCacheStore struct {
	db *gorm.DB
}

func NewCacheStore(db *gorm.DB) CacheStore {
	return &DefaultCacheStore{db: db}
}

func (s *DefaultCacheStore) GetResponseCacheDB(cacheKey string, now time.Time) (*models.ResponseCache, error) {
	var entry models.ResponseCache
	err := s.db.Where("cache_key = ? AND expires_at > ?", cacheKey, now).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *DefaultCacheStore) PutResponseCacheDB(entry *models.ResponseCache) error {
	return s.db.Create(entry).Error
}

func (s *DefaultCacheStore) IncrementResponseHitDB(id uint) error {
	return s.db.Model(&models.ResponseCache{}).Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}

func (s *DefaultCacheStore) GetTranslationDB(word, language string) (*models.TranslationCache, error) {
	var entry models.TranslationCache
	err := s.db.Where("word = ? AND language = ?", NormalizeWord(word), language).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *DefaultCacheStore) PutTranslationDB(entry *models.TranslationCache) error {
	entry.Word = NormalizeWord(entry.Word)
	return s.db.Create(entry).Error
}

func (s *DefaultCacheStore) IncrementTranslationHitDB(id uint) error {
	return s.db.Model(&models.TranslationCache{}).Where("id = ?", id).
		UpdateColumn("hit_count", gorm.Expr("hit_count + 1")).Error
}
