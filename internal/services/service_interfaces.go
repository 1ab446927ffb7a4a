package services

import (
	"context"
	"time"

	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
)

// ChatStore is the persistence surface for chats, messages, grammar notes
// and music recommendations.
type ChatStore interface {
	CreateChatDB(userID uuid.UUID, title, language string) (*models.Chat, error)
	GetChatByIDFromDB(chatID uuid.UUID) (*models.Chat, error)
	GetChatsByUserIDFromDB(userID uuid.UUID) ([]models.Chat, error)
	CountChatsByUserIDFromDB(userID uuid.UUID) (int64, error)
	RenameChatDB(chatID uuid.UUID, title string) error
	DeleteChatDB(chatID uuid.UUID) error
	TouchChatDB(chatID uuid.UUID) error

	InsertMessageDB(msg *models.Message) error
	GetMessagesByChatIDFromDB(chatID uuid.UUID) ([]models.Message, error)
	GetRecentMessagesFromDB(chatID uuid.UUID, limit int) ([]models.Message, error)
	GetMessageByIDFromDB(messageID uuid.UUID) (*models.Message, error)
	GetLatestMessageFromDB(chatID uuid.UUID) (*models.Message, error)
	CountUserMessagesSinceDB(chatID uuid.UUID, since time.Time) (int64, error)
	CountProactiveMessagesSinceDB(chatID uuid.UUID, since time.Time) (int64, error)
	UpdateMessageCorrectionsDB(messageID uuid.UUID, corrections models.CorrectionList) error
	MarkMessagesReadDB(chatID uuid.UUID, readAt time.Time) error

	InsertGrammarNoteDB(note *models.GrammarNote) error
	GetGrammarNotesByChatIDFromDB(chatID uuid.UUID) ([]models.GrammarNote, error)
	DeleteGrammarNoteDB(chatID, noteID uuid.UUID) error

	InsertMusicRecommendationDB(rec *models.MusicRecommendation) error
	GetMusicRecommendationsByChatIDFromDB(chatID uuid.UUID) ([]models.MusicRecommendation, error)
}

// CacheStore is the persistence surface for the chat-turn response cache and
// the translation cache.
type CacheStore interface {
	// GetResponseCacheDB returns the unexpired entry for the key or nil on a
	// miss. Equality with now counts as expired.
	GetResponseCacheDB(cacheKey string, now time.Time) (*models.ResponseCache, error)
	PutResponseCacheDB(entry *models.ResponseCache) error
	IncrementResponseHitDB(id uint) error

	GetTranslationDB(word, language string) (*models.TranslationCache, error)
	PutTranslationDB(entry *models.TranslationCache) error
	IncrementTranslationHitDB(id uint) error
}

// UserStore loads the rows the entitlement gate and prompt builder need.
type UserStore interface {
	GetUserByIDFromDB(userID uuid.UUID) (*models.User, error)
	GetSettingsByUserIDFromDB(userID uuid.UUID) (*models.UserSettings, error)
	UpsertSettingsDB(settings *models.UserSettings) error
	SetPremiumDB(userID uuid.UUID, premium bool) error
}

// EntitlementChecker decides whether a request may proceed.
type EntitlementChecker interface {
	CanSendMessage(chatID, userID uuid.UUID) error
	CanCreateChat(userID uuid.UUID) error
}

// UsageCounter is the best-effort daily counter; failures are logged by the
// caller and never surfaced.
type UsageCounter interface {
	IncrementDaily(ctx context.Context, userID uuid.UUID, kind string) error
}

// Locker is a best-effort advisory lock used to dampen duplicate proactive
// messages from concurrent client tabs.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// EventPublisher pushes row-change events onto the per-chat realtime feed.
type EventPublisher interface {
	Publish(topic string, msg interface{})
}
