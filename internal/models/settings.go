package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings feature toggles are tri-state pointers so an unset toggle can
// default to enabled instead of false.
type UserSettings struct {
	gorm.Model
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	MemesEnabled    *bool
	MusicEnabled    *bool
	TTSEnabled      *bool
	STTEnabled      *bool
	Provider        string `gorm:"type:varchar(32)"` // gemini | cohere | anthropic
	GeminiAPIKey    string
	CohereAPIKey    string
	AnthropicAPIKey string
}

func (s *UserSettings) MemesOn() bool {
	return s == nil || s.MemesEnabled == nil || *s.MemesEnabled
}

func (s *UserSettings) MusicOn() bool {
	return s == nil || s.MusicEnabled == nil || *s.MusicEnabled
}
