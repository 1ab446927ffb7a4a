package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"lingozo_go_backend/internal/ai"
	"lingozo_go_backend/internal/errors"
	"lingozo_go_backend/internal/models"

	"github.com/google/uuid"
)

const (
	// ProactiveDailyLimit caps unsolicited check-ins per chat per UTC day.
	ProactiveDailyLimit = 2
	// proactiveMinGap: never nudge within half an hour of any message.
	proactiveMinGap = 30 * time.Minute
	// proactiveCooldown: generation only proceeds once the chat has been
	// quiet for this long.
	proactiveCooldown = 2 * time.Hour
	// proactiveContextSize is how many recent messages seed the nudge.
	proactiveContextSize = 5

	ReasonDailyLimit = "Daily proactive limit reached"
	ReasonTooSoon    = "Too soon after last message"
	ReasonCooldown   = "Within cooldown window"
	ReasonLockHeld   = "Another check-in is already in flight"
)

// ProactiveResult reports the scheduler's decision for one invocation.
type ProactiveResult struct {
	ShouldSend bool            `json:"shouldSend"`
	Reason     string          `json:"reason,omitempty"`
	Message    *models.Message `json:"message,omitempty"`
}

// ProactiveService decides whether a chat earns an unsolicited check-in and
// generates one when it does. It is invoked by clients on a polling
// schedule; there is no server-side cron. A short Redis advisory lock
// dampens duplicates from multiple open tabs, best-effort only.
type ProactiveService struct {
	chats       ChatStore
	users       UserStore
	publisher   EventPublisher
	locker      Locker
	newProvider ai.Factory
	lockTTL     time.Duration
}

func NewProactiveService(chats ChatStore, users UserStore, publisher EventPublisher, locker Locker, newProvider ai.Factory, lockTTL time.Duration) *ProactiveService {
	return &ProactiveService{
		chats:       chats,
		users:       users,
		publisher:   publisher,
		locker:      locker,
		newProvider: newProvider,
		lockTTL:     lockTTL,
	}
}

// MaybeSend evaluates the cap and cooldown windows for chatID and, when the
// chat qualifies, persists a new proactive assistant message.
func (s *ProactiveService) MaybeSend(ctx context.Context, chatID uuid.UUID) (*ProactiveResult, error) {
	chat, err := s.chats.GetChatByIDFromDB(chatID)
	if err != nil {
		return nil, errors.New404Error("Chat not found")
	}

	count, err := s.chats.CountProactiveMessagesSinceDB(chat.ID, startOfUTCDay(time.Now()))
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to count proactive messages: %w", err))
	}
	if count >= ProactiveDailyLimit {
		return &ProactiveResult{ShouldSend: false, Reason: ReasonDailyLimit}, nil
	}

	latest, err := s.chats.GetLatestMessageFromDB(chat.ID)
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to load latest message: %w", err))
	}
	if latest != nil {
		age := time.Since(latest.CreatedAt)
		if age < proactiveMinGap {
			return &ProactiveResult{ShouldSend: false, Reason: ReasonTooSoon}, nil
		}
		if age < proactiveCooldown {
			return &ProactiveResult{ShouldSend: false, Reason: ReasonCooldown}, nil
		}
	}

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, fmt.Sprintf("proactive_lock:%s", chat.ID), s.lockTTL)
		if err != nil {
			// Lock failure is never a reason to refuse; duplicates are
			// tolerated when Redis is unavailable.
			log.Printf("Proactive lock unavailable for chat %s: %v", chat.ID, err)
		} else if !ok {
			return &ProactiveResult{ShouldSend: false, Reason: ReasonLockHeld}, nil
		}
	}

	msg, err := s.generate(ctx, chat)
	if err != nil {
		return nil, err
	}

	return &ProactiveResult{ShouldSend: true, Message: msg}, nil
}

func (s *ProactiveService) generate(ctx context.Context, chat *models.Chat) (*models.Message, error) {
	settings, err := s.users.GetSettingsByUserIDFromDB(chat.UserID)
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to load settings: %w", err))
	}

	providerName, apiKey := resolveProviderKey(settings)
	provider, err := s.newProvider(providerName, apiKey)
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to construct provider %q: %w", providerName, err))
	}

	recent, err := s.chats.GetRecentMessagesFromDB(chat.ID, proactiveContextSize)
	if err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to load recent messages: %w", err))
	}

	// Recent rows arrive newest-first; the provider wants oldest-first.
	history := make([]ai.Message, 0, len(recent)+1)
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, ai.Message{Role: recent[i].Role, Content: recent[i].Content})
	}
	history = append(history, ai.Message{
		Role:    models.RoleUser,
		Content: "(The learner has been quiet for a while. Send your check-in now.)",
	})

	raw, err := provider.Chat(ctx, history, ai.ProactivePrompt(chat.Language), chat.Language)
	if err != nil {
		return nil, classifyProviderError(err)
	}

	msg := &models.Message{
		ChatID:      chat.ID,
		Role:        models.RoleAssistant,
		Content:     raw,
		IsProactive: true,
	}
	if err := s.chats.InsertMessageDB(msg); err != nil {
		return nil, errors.LogAndReturn500(fmt.Errorf("failed to save proactive message: %w", err))
	}
	if s.publisher != nil {
		s.publisher.Publish(ChatTopic(chat.ID), ChatEvent{Type: EventMessageInsert, ChatID: chat.ID, Payload: msg})
	}

	if err := s.chats.TouchChatDB(chat.ID); err != nil {
		log.Printf("Failed to bump chat %s timestamp: %v", chat.ID, err)
	}

	return msg, nil
}
