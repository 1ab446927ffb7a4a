package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lingozo_go_backend/internal/ai"
	"lingozo_go_backend/internal/errors"
	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
)

// TurnRequest is one inbound chat message.
type TurnRequest struct {
	ChatID      uuid.UUID
	Message     string
	Language    string
	FeatureMode string
	ReplyToID   *uuid.UUID
}

// ChatTurnService orchestrates a chat turn: entitlement check, cache lookup,
// prompt build, provider call, parse, then the persistence fan-out. Steps
// before the user message is saved abort cleanly; everything after a
// successful generation is individually best-effort.
type ChatTurnService struct {
	chats        ChatStore
	caches       CacheStore
	users        UserStore
	entitlements EntitlementChecker
	usage        UsageCounter
	publisher    EventPublisher
	newProvider  ai.Factory
	pacingDelay  time.Duration
}

func NewChatTurnService(
	chats ChatStore,
	caches CacheStore,
	users UserStore,
	entitlements EntitlementChecker,
	usage UsageCounter,
	publisher EventPublisher,
	newProvider ai.Factory,
	pacingDelay time.Duration,
) *ChatTurnService {
	return &ChatTurnService{
		chats:        chats,
		caches:       caches,
		users:        users,
		entitlements: entitlements,
		usage:        usage,
		publisher:    publisher,
		newProvider:  newProvider,
		pacingDelay:  pacingDelay,
	}
}

// HandleTurn runs the full turn. On success the caller only gets an
// acknowledgment; the UI receives the actual rows over the realtime feed.
func (s *ChatTurnService) HandleTurn(ctx context.Context, req TurnRequest) error {
	// 1. Validate inputs.
	if req.ChatID == uuid.Nil || req.Message == "" || req.Language == "" {
		return errors.New400Error("chatId, message and language are required")
	}

	// 2. Resolve the owning user from the chat record.
	chat, err := s.chats.GetChatByIDFromDB(req.ChatID)
	if err != nil {
		return errors.New404Error("Chat not found")
	}

	// 3. Entitlement gate.
	if err := s.entitlements.CanSendMessage(chat.ID, chat.UserID); err != nil {
		return err
	}

	// 4. Feature toggles, defaulting to enabled when unset.
	settings, err := s.users.GetSettingsByUserIDFromDB(chat.UserID)
	if err != nil {
		return errors.LogAndReturn500(fmt.Errorf("failed to load settings: %w", err))
	}

	// 5. Persist the user message immediately so it survives a failed
	// generation.
	userMsg := &models.Message{
		ChatID:    chat.ID,
		Role:      models.RoleUser,
		Content:   req.Message,
		ReplyToID: req.ReplyToID,
	}
	if err := s.chats.InsertMessageDB(userMsg); err != nil {
		return errors.LogAndReturn500(fmt.Errorf("failed to save user message: %w", err))
	}
	s.publishEvent(chat.ID, EventMessageInsert, userMsg)

	// 6. Cache lookup, else generate.
	parsed, err := s.generateOrReuse(ctx, chat, settings, req, userMsg)
	if err != nil {
		return err
	}

	// 7. Attach corrections to the just-persisted user message.
	if len(parsed.Corrections) > 0 {
		corrections := make(models.CorrectionList, 0, len(parsed.Corrections))
		for _, c := range parsed.Corrections {
			corrections = append(corrections, models.Correction{Incorrect: c.Incorrect, Correction: c.Correction})
		}
		if err := s.chats.UpdateMessageCorrectionsDB(userMsg.ID, corrections); err != nil {
			log.Printf("Failed to attach corrections to message %s: %v", userMsg.ID, err)
		} else {
			userMsg.Corrections = corrections
			s.publishEvent(chat.ID, EventMessageUpdate, userMsg)
		}
	}

	// 8. Reciprocal reply linkage: when the user replied to an assistant
	// message, the first assistant message of this turn links back to the
	// user's message.
	var backlink *uuid.UUID
	if req.ReplyToID != nil {
		id := userMsg.ID
		backlink = &id
	}

	// 9. Persist the assistant message(s).
	lastAssistant := s.persistAssistantMessages(chat.ID, parsed, backlink)

	// 10. Grammar note, if present with a title.
	if parsed.GrammarNote != nil && parsed.GrammarNote.Title != "" {
		note := &models.GrammarNote{
			ChatID:   chat.ID,
			Title:    parsed.GrammarNote.Title,
			Content:  parsed.GrammarNote.Content,
			Category: parsed.GrammarNote.Category,
		}
		if err := s.chats.InsertGrammarNoteDB(note); err != nil {
			log.Printf("Failed to save grammar note for chat %s: %v", chat.ID, err)
		}
	}

	// 11. Music recommendation, linked to the last assistant message.
	if rec := parsed.MusicRecommendation; rec != nil && rec.Title != "" && rec.Artist != "" {
		row := &models.MusicRecommendation{
			ChatID:     chat.ID,
			Title:      rec.Title,
			Artist:     rec.Artist,
			Reason:     rec.Reason,
			Difficulty: rec.Difficulty,
			Genre:      rec.Genre,
			Language:   rec.Language,
		}
		if lastAssistant != nil {
			id := lastAssistant.ID
			row.MessageID = &id
		}
		if err := s.chats.InsertMusicRecommendationDB(row); err != nil {
			log.Printf("Failed to save music recommendation for chat %s: %v", chat.ID, err)
		} else {
			s.publishEvent(chat.ID, EventMusicInsert, row)
		}
	}

	// 12. Bump the chat timestamp.
	if err := s.chats.TouchChatDB(chat.ID); err != nil {
		log.Printf("Failed to bump chat %s timestamp: %v", chat.ID, err)
	}

	// 13. Usage counter, best-effort.
	if err := s.usage.IncrementDaily(ctx, chat.UserID, UsageKindMessage); err != nil {
		log.Printf("Failed to increment usage counter for user %s: %v", chat.UserID, err)
	}

	// 14. Acknowledge; content flows to the UI over the realtime feed.
	return nil
}

// generateOrReuse returns the parsed turn result from the response cache or
// a live provider call. Cache writes and hit counts are best-effort.
func (s *ChatTurnService) generateOrReuse(ctx context.Context, chat *models.Chat, settings *models.UserSettings, req TurnRequest, userMsg *models.Message) (*ai.ParsedResponse, error) {
	cacheKey := ResponseCacheKey(chat.ID, req.Message)

	entry, err := s.caches.GetResponseCacheDB(cacheKey, time.Now())
	if err != nil {
		log.Printf("Response cache lookup failed for chat %s: %v", chat.ID, err)
	}
	if entry != nil {
		var parsed ai.ParsedResponse
		if err := json.Unmarshal(entry.Response, &parsed); err == nil {
			if err := s.caches.IncrementResponseHitDB(entry.ID); err != nil {
				log.Printf("Failed to increment cache hit count: %v", err)
			}
			return &parsed, nil
		}
		log.Printf("Discarding unreadable cache entry %d: %v", entry.ID, err)
	}

	providerName, apiKey := resolveProviderKey(settings)
	provider, err := s.newProvider(providerName, apiKey)
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to construct provider %q: %w", providerName, err))
	}

	systemPrompt := ai.GenerateSystemPrompt(req.Language, settings.MemesOn(), settings.MusicOn(), req.FeatureMode)

	history, err := s.buildHistory(chat.ID, userMsg, req.ReplyToID)
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to load conversation history: %w", err))
	}

	raw, err := provider.Chat(ctx, history, systemPrompt, req.Language)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	parsed := ai.ParseAIResponse(raw)

	if payload, err := json.Marshal(parsed); err == nil {
		put := &models.ResponseCache{
			CacheKey:  cacheKey,
			ChatID:    chat.ID,
			Language:  req.Language,
			Response:  payload,
			ExpiresAt: time.Now().Add(ResponseCacheTTL),
		}
		// Duplicate-key races lose silently; caching is an optimization.
		if err := s.caches.PutResponseCacheDB(put); err != nil {
			log.Printf("Response cache insert skipped for chat %s: %v", chat.ID, err)
		}
	}

	return &parsed, nil
}

// buildHistory assembles the full ordered conversation, annotating the new
// user message with quoted reply context when it replies to an earlier one.
func (s *ChatTurnService) buildHistory(chatID uuid.UUID, userMsg *models.Message, replyToID *uuid.UUID) ([]ai.Message, error) {
	rows, err := s.chats.GetMessagesByChatIDFromDB(chatID)
	if err != nil {
		return nil, err
	}

	var replyContext string
	if replyToID != nil {
		if target, err := s.chats.GetMessageByIDFromDB(*replyToID); err == nil {
			replyContext = target.Content
		}
	}

	history := make([]ai.Message, 0, len(rows)+1)
	for _, row := range rows {
		if row.ID == userMsg.ID {
			continue // appended last, possibly annotated
		}
		history = append(history, ai.Message{Role: row.Role, Content: row.Content})
	}

	content := userMsg.Content
	if replyContext != "" {
		content = fmt.Sprintf("[Replying to: %q] %s", replyContext, content)
	}
	return append(history, ai.Message{Role: models.RoleUser, Content: content}), nil
}

// persistAssistantMessages inserts the reply burst in order with a short
// pacing delay between rows, so realtime subscribers see a natural rhythm.
// Only the first message of a burst carries the reply backlink. Returns the
// last inserted row, or nil when the turn produced no content.
func (s *ChatTurnService) persistAssistantMessages(chatID uuid.UUID, parsed *ai.ParsedResponse, backlink *uuid.UUID) *models.Message {
	contents := parsed.Messages
	if !parsed.IsMultiMessage {
		contents = []string{parsed.Response}
	}

	var last *models.Message
	for i, content := range contents {
		if content == "" {
			continue
		}
		if i > 0 && s.pacingDelay > 0 {
			time.Sleep(s.pacingDelay)
		}
		msg := &models.Message{
			ChatID:  chatID,
			Role:    models.RoleAssistant,
			Content: content,
		}
		if i == 0 {
			msg.ReplyToID = backlink
		}
		if err := s.chats.InsertMessageDB(msg); err != nil {
			log.Printf("Failed to save assistant message for chat %s: %v", chatID, err)
			continue
		}
		s.publishEvent(chatID, EventMessageInsert, msg)
		last = msg
	}

	if last == nil {
		log.Printf("Turn for chat %s produced no assistant content", chatID)
	}
	return last
}

func (s *ChatTurnService) publishEvent(chatID uuid.UUID, kind string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ChatTopic(chatID), ChatEvent{Type: kind, ChatID: chatID, Payload: payload})
}
