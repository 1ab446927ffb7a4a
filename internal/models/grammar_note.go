package models

import (
	"time"

	"github.com/google/uuid"
)

type GrammarNote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:(gen_random_uuid())"`
	ChatID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"type:text"` // markdown
	Category  string
	CreatedAt time.Time
}
