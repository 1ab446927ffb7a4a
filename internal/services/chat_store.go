package services

import (
	"time"

	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultChatStore implements ChatStore on GORM.
type DefaultChatStore struct {
	db *gorm.DB
}

func NewChatStore(db *gorm.DB) ChatStore {
	return &DefaultChatStore{db: db}
}

func (s *DefaultChatStore) CreateChatDB(userID uuid.UUID, title, language string) (*models.Chat, error) {
	chat := &models.Chat{
		UserID:   userID,
		Title:    title,
		Language: language,
	}
	if err := s.db.Create(chat).Error; err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *DefaultChatStore) GetChatByIDFromDB(chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.Where("id = ?", chatID).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *DefaultChatStore) GetChatsByUserIDFromDB(userID uuid.UUID) ([]models.Chat, error) {
	var chats []models.Chat
	result := s.db.Where("user_id = ?", userID).Order("updated_at desc").Find(&chats)
	if result.Error != nil {
		return nil, result.Error
	}
	return chats, nil
}

func (s *DefaultChatStore) CountChatsByUserIDFromDB(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Chat{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *DefaultChatStore) RenameChatDB(chatID uuid.UUID, title string) error {
	return s.db.Model(&models.Chat{}).Where("id = ?", chatID).Update("title", title).Error
}

func (s *DefaultChatStore) DeleteChatDB(chatID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&models.GrammarNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chat_id = ?", chatID).Delete(&models.MusicRecommendation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", chatID).Delete(&models.Chat{}).Error
	})
}

// TouchChatDB bumps updated_at so chat lists sort by recency.
func (s *DefaultChatStore) TouchChatDB(chatID uuid.UUID) error {
	return s.db.Model(&models.Chat{}).Where("id = ?", chatID).
		Update("updated_at", time.Now().UTC()).Error
}

func (s *DefaultChatStore) InsertMessageDB(msg *models.Message) error {
	return s.db.Create(msg).Error
}

func (s *DefaultChatStore) GetMessagesByChatIDFromDB(chatID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	result := s.db.Where("chat_id = ?", chatID).Order("created_at asc").Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}

func (s *DefaultChatStore) GetRecentMessagesFromDB(chatID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message
	result := s.db.Where("chat_id = ?", chatID).Order("created_at desc").Limit(limit).Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}

func (s *DefaultChatStore) GetMessageByIDFromDB(messageID uuid.UUID) (*models.Message, error) {
	var msg models.Message
	if err := s.db.Where("id = ?", messageID).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *DefaultChatStore) GetLatestMessageFromDB(chatID uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := s.db.Where("chat_id = ?", chatID).Order("created_at desc").First(&msg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (s *DefaultChatStore) CountUserMessagesSinceDB(chatID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("chat_id = ? AND role = ? AND created_at >= ?", chatID, models.RoleUser, since).
		Count(&count).Error
	return count, err
}

func (s *DefaultChatStore) CountProactiveMessagesSinceDB(chatID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("chat_id = ? AND is_proactive = ? AND created_at >= ?", chatID, true, since).
		Count(&count).Error
	return count, err
}

func (s *DefaultChatStore) UpdateMessageCorrectionsDB(messageID uuid.UUID, corrections models.CorrectionList) error {
	return s.db.Model(&models.Message{}).Where("id = ?", messageID).
		Update("corrections", corrections).Error
}

func (s *DefaultChatStore) MarkMessagesReadDB(chatID uuid.UUID, readAt time.Time) error {
	return s.db.Model(&models.Message{}).
		Where("chat_id = ? AND role = ? AND read_at IS NULL", chatID, models.RoleAssistant).
		Update("read_at", readAt).Error
}

func (s *DefaultChatStore) InsertGrammarNoteDB(note *models.GrammarNote) error {
	return s.db.Create(note).Error
}

func (s *DefaultChatStore) GetGrammarNotesByChatIDFromDB(chatID uuid.UUID) ([]models.GrammarNote, error) {
	var notes []models.GrammarNote
	result := s.db.Where("chat_id = ?", chatID).Order("created_at desc").Find(&notes)
	if result.Error != nil {
		return nil, result.Error
	}
	return notes, nil
}

func (s *DefaultChatStore) DeleteGrammarNoteDB(chatID, noteID uuid.UUID) error {
	return s.db.Where("id = ? AND chat_id = ?", noteID, chatID).Delete(&models.GrammarNote{}).Error
}

func (s *DefaultChatStore) InsertMusicRecommendationDB(rec *models.MusicRecommendation) error {
	return s.db.Create(rec).Error
}

func (s *DefaultChatStore) GetMusicRecommendationsByChatIDFromDB(chatID uuid.UUID) ([]models.MusicRecommendation, error) {
	var recs []models.MusicRecommendation
	result := s.db.Where("chat_id = ?", chatID).Order("created_at desc").Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	return recs, nil
}
