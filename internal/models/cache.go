package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponseCache holds a parsed AI turn keyed by chat + normalized message
// text. Entries expire 24h after creation; lookups must filter on
// expires_at > now.
type ResponseCache struct {
	gorm.Model
	CacheKey  string    `gorm:"uniqueIndex;not null"`
	ChatID    uuid.UUID `gorm:"type:uuid;index"`
	Language  string
	Response  []byte `gorm:"type:jsonb"` // JSON-encoded parsed result
	HitCount  int    `gorm:"default:0"`
	ExpiresAt time.Time `gorm:"index"`
}

// TranslationCache never expires; translations are assumed stable.
type TranslationCache struct {
	gorm.Model
	Word        string `gorm:"index:idx_translation_word_lang,unique;not null"`
	Language    string `gorm:"index:idx_translation_word_lang,unique;not null"`
	Translation string `gorm:"type:text"`
	HitCount    int    `gorm:"default:0"`
}
