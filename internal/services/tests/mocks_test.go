package services_test

import (
	"context"
	"time"

	"lingozo_go_backend/internal/ai"
	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChatStore struct {
	mock.Mock
}

func (m *MockChatStore) CreateChatDB(userID uuid.UUID, title, language string) (*models.Chat, error) {
	args := m.Called(userID, title, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatStore) GetChatByIDFromDB(chatID uuid.UUID) (*models.Chat, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockChatStore) GetChatsByUserIDFromDB(userID uuid.UUID) ([]models.Chat, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Chat), args.Error(1)
}

func (m *MockChatStore) CountChatsByUserIDFromDB(userID uuid.UUID) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatStore) RenameChatDB(chatID uuid.UUID, title string) error {
	args := m.Called(chatID, title)
	return args.Error(0)
}

func (m *MockChatStore) DeleteChatDB(chatID uuid.UUID) error {
	args := m.Called(chatID)
	return args.Error(0)
}

func (m *MockChatStore) TouchChatDB(chatID uuid.UUID) error {
	args := m.Called(chatID)
	return args.Error(0)
}

func (m *MockChatStore) InsertMessageDB(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockChatStore) GetMessagesByChatIDFromDB(chatID uuid.UUID) ([]models.Message, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockChatStore) GetRecentMessagesFromDB(chatID uuid.UUID, limit int) ([]models.Message, error) {
	args := m.Called(chatID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockChatStore) GetMessageByIDFromDB(messageID uuid.UUID) (*models.Message, error) {
	args := m.Called(messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockChatStore) GetLatestMessageFromDB(chatID uuid.UUID) (*models.Message, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockChatStore) CountUserMessagesSinceDB(chatID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(chatID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatStore) CountProactiveMessagesSinceDB(chatID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(chatID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatStore) UpdateMessageCorrectionsDB(messageID uuid.UUID, corrections models.CorrectionList) error {
	args := m.Called(messageID, corrections)
	return args.Error(0)
}

func (m *MockChatStore) MarkMessagesReadDB(chatID uuid.UUID, readAt time.Time) error {
	args := m.Called(chatID, readAt)
	return args.Error(0)
}

func (m *MockChatStore) InsertGrammarNoteDB(note *models.GrammarNote) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockChatStore) GetGrammarNotesByChatIDFromDB(chatID uuid.UUID) ([]models.GrammarNote, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GrammarNote), args.Error(1)
}

func (m *MockChatStore) DeleteGrammarNoteDB(chatID, noteID uuid.UUID) error {
	args := m.Called(chatID, noteID)
	return args.Error(0)
}

func (m *MockChatStore) InsertMusicRecommendationDB(rec *models.MusicRecommendation) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockChatStore) GetMusicRecommendationsByChatIDFromDB(chatID uuid.UUID) ([]models.MusicRecommendation, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MusicRecommendation), args.Error(1)
}

type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) GetResponseCacheDB(cacheKey string, now time.Time) (*models.ResponseCache, error) {
	args := m.Called(cacheKey, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResponseCache), args.Error(1)
}

func (m *MockCacheStore) PutResponseCacheDB(entry *models.ResponseCache) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockCacheStore) IncrementResponseHitDB(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCacheStore) GetTranslationDB(word, language string) (*models.TranslationCache, error) {
	args := m.Called(word, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TranslationCache), args.Error(1)
}

func (m *MockCacheStore) PutTranslationDB(entry *models.TranslationCache) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockCacheStore) IncrementTranslationHitDB(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUserByIDFromDB(userID uuid.UUID) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetSettingsByUserIDFromDB(userID uuid.UUID) (*models.UserSettings, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}

func (m *MockUserStore) UpsertSettingsDB(settings *models.UserSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockUserStore) SetPremiumDB(userID uuid.UUID, premium bool) error {
	args := m.Called(userID, premium)
	return args.Error(0)
}

type MockEntitlementChecker struct {
	mock.Mock
}

func (m *MockEntitlementChecker) CanSendMessage(chatID, userID uuid.UUID) error {
	args := m.Called(chatID, userID)
	return args.Error(0)
}

func (m *MockEntitlementChecker) CanCreateChat(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockUsageCounter struct {
	mock.Mock
}

func (m *MockUsageCounter) IncrementDaily(ctx context.Context, userID uuid.UUID, kind string) error {
	args := m.Called(ctx, userID, kind)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, msg interface{}) {
	m.Called(topic, msg)
}

// MockProvider stands in for an LLM backend; tests count its calls to prove
// gates and caches short-circuit the pipeline.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Chat(ctx context.Context, messages []ai.Message, systemPrompt, language string) (string, error) {
	args := m.Called(ctx, messages, systemPrompt, language)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Translate(ctx context.Context, word, targetLanguage string) (string, error) {
	args := m.Called(ctx, word, targetLanguage)
	return args.String(0), args.Error(1)
}

// fixedFactory hands every construction the same provider.
func fixedFactory(p ai.Provider) ai.Factory {
	return func(name, apiKey string) (ai.Provider, error) {
		return p, nil
	}
}
