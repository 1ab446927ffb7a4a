package wsocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"lingozo_go_backend/internal/broker"
	"lingozo_go_backend/internal/models"
	"lingozo_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler streams row-change events for a single chat over a websocket.
// Clients reconnect with a fresh connection per open chat.
type Handler struct {
	chats        services.ChatStore
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	ChatID  string `json:"chatId"`
}

func NewHandler(chats services.ChatStore, upgrader websocket.Upgrader, pingInterval time.Duration) *Handler {
	return &Handler{
		chats:        chats,
		upgrader:     upgrader,
		pingInterval: pingInterval,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request, user interface{}, messageBroker *broker.Broker) {
	chatIDParam := r.URL.Query().Get("chatId")
	if chatIDParam == "" {
		http.Error(w, "No chatId provided", http.StatusBadRequest)
		return
	}
	chatID, err := uuid.Parse(chatIDParam)
	if err != nil {
		http.Error(w, "Invalid chatId", http.StatusBadRequest)
		return
	}

	userModel, ok := user.(*models.User)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	chat, err := h.chats.GetChatByIDFromDB(chatID)
	if err != nil || chat.UserID != userModel.ID {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket connection: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	topic := services.ChatTopic(chatID)
	events := messageBroker.Subscribe(topic)
	defer messageBroker.Unsubscribe(topic, events)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, open := <-events:
				if !open {
					return
				}
				event, ok := msg.(services.ChatEvent)
				if !ok {
					continue
				}
				payload, err := json.Marshal(event.Payload)
				if err != nil {
					log.Printf("Error marshaling chat event payload: %v", err)
					continue
				}
				if err := conn.WriteJSON(Frame{
					Type:    event.Type,
					Content: string(payload),
					ChatID:  chatIDParam,
				}); err != nil {
					log.Printf("Error writing chat event: %v", err)
					cancel()
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Read pump: the client sends "read" when the chat is focused so unread
	// proactive messages get cleared.
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Error unmarshaling websocket frame: %v", err)
			continue
		}
		switch frame.Type {
		case "read":
			if err := h.chats.MarkMessagesReadDB(chatID, time.Now().UTC()); err != nil {
				log.Printf("Failed to mark messages read for chat %s: %v", chatID, err)
			}
		default:
			log.Printf("Unknown websocket frame type: %s", frame.Type)
		}
	}
}
