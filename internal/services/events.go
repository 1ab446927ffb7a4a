package services

import (
	"fmt"

	"github.com/google/uuid"
)

// Event kinds emitted on the per-chat realtime feed. The UI treats the feed
// as an INSERT/UPDATE stream over message and music recommendation rows and
// de-duplicates by row id.
const (
	EventMessageInsert = "message_insert"
	EventMessageUpdate = "message_update"
	EventMusicInsert   = "music_insert"
)

// ChatEvent is one row change, serialized as-is to subscribed sockets.
type ChatEvent struct {
	Type    string      `json:"type"`
	ChatID  uuid.UUID   `json:"chatId"`
	Payload interface{} `json:"payload"`
}

// ChatTopic names the broker topic for one chat's feed.
func ChatTopic(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_%s", chatID)
}
