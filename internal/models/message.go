package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Correction marks an exact substring of a user message and its fix.
type Correction struct {
	Incorrect  string `json:"incorrect"`
	Correction string `json:"correction"`
}

// CorrectionList is stored as a JSON column on the message row.
type CorrectionList []Correction

func (c CorrectionList) Value() (driver.Value, error) {
	if len(c) == 0 {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *CorrectionList) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("corrections: unsupported column type")
	}
}

type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:(gen_random_uuid())"`
	ChatID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Role        string    `gorm:"type:varchar(16);not null"`
	Content     string    `gorm:"type:text;not null"`
	Corrections CorrectionList `gorm:"type:jsonb"`
	ReplyToID   *uuid.UUID     `gorm:"type:uuid"`
	ReadAt      *time.Time
	IsProactive bool `gorm:"default:false"`
	CreatedAt   time.Time
}
