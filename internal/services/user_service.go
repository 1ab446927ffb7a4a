package services

import (
	"lingozo_go_backend/internal/database"
	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateOrUpdateUser(auth0ID, email, name, nickname string) (*models.User, error) {
	user := models.User{
		Auth0ID:  auth0ID,
		Email:    email,
		Name:     name,
		Nickname: nickname,
	}
	result := database.DB.Where(models.User{Auth0ID: auth0ID}).FirstOrCreate(&user)

	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

func GetUserByAuth0ID(auth0ID string) (*models.User, error) {
	var user models.User
	result := database.DB.Where("auth0_id = ?", auth0ID).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// DefaultUserStore implements UserStore on GORM.
type DefaultUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &DefaultUserStore{db: db}
}

// GetUserByIDFromDB returns nil (not an error) when no row exists: a user
// without a profile row is simply not premium.
func (s *DefaultUserStore) GetUserByIDFromDB(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetSettingsByUserIDFromDB returns nil on a missing row; callers treat nil
// settings as all-defaults (memes and music enabled).
func (s *DefaultUserStore) GetSettingsByUserIDFromDB(userID uuid.UUID) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (s *DefaultUserStore) UpsertSettingsDB(settings *models.UserSettings) error {
	var existing models.UserSettings
	err := s.db.Where("user_id = ?", settings.UserID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return s.db.Create(settings).Error
	}
	if err != nil {
		return err
	}
	settings.ID = existing.ID
	return s.db.Save(settings).Error
}

func (s *DefaultUserStore) SetPremiumDB(userID uuid.UUID, premium bool) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_premium", premium).Error
}
