package models

import (
	"time"

	"github.com/google/uuid"
)

type MusicRecommendation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:(gen_random_uuid())"`
	ChatID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	MessageID  *uuid.UUID `gorm:"type:uuid"`
	Title      string     `gorm:"not null"`
	Artist     string     `gorm:"not null"`
	Reason     string
	Difficulty string `gorm:"type:varchar(16)"` // easy | medium | hard
	Genre      string
	Language   string
	CreatedAt  time.Time
}
