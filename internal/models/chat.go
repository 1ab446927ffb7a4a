package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chat struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:(gen_random_uuid())"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Title     string
	Language  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	Messages  []Message      `gorm:"foreignKey:ChatID"`
}
