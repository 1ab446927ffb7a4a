package services

import (
	"fmt"
	"time"

	"lingozo_go_backend/internal/errors"

	"github.com/google/uuid"
)

const (
	// DailyMessageLimit caps user messages per chat per UTC day for
	// non-premium users.
	DailyMessageLimit = 20
	// MaxActiveChats caps concurrent chats for non-premium users, checked
	// at chat creation.
	MaxActiveChats = 5
)

// EntitlementService is the soft quota gate. It is race-tolerant: a little
// over-admission under concurrent requests is acceptable, so no lock is
// taken around the count.
type EntitlementService struct {
	users UserStore
	chats ChatStore
}

func NewEntitlementService(users UserStore, chats ChatStore) *EntitlementService {
	return &EntitlementService{users: users, chats: chats}
}

// startOfUTCDay returns the rolling-counter window boundary.
func startOfUTCDay(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *EntitlementService) isPremium(userID uuid.UUID) (bool, error) {
	user, err := s.users.GetUserByIDFromDB(userID)
	if err != nil {
		return false, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	// Missing profile row means not premium, never an error.
	return user != nil && user.IsPremium, nil
}

// CanSendMessage rejects with a 429 once a non-premium user has sent
// DailyMessageLimit messages in this chat since UTC midnight.
func (s *EntitlementService) CanSendMessage(chatID, userID uuid.UUID) error {
	premium, err := s.isPremium(userID)
	if err != nil {
		return errors.LogAndReturn500(err)
	}
	if premium {
		return nil
	}

	count, err := s.chats.CountUserMessagesSinceDB(chatID, startOfUTCDay(time.Now()))
	if err != nil {
		return errors.LogAndReturn500(fmt.Errorf("failed to count daily messages: %w", err))
	}
	if count >= DailyMessageLimit {
		return errors.New429Error(fmt.Sprintf(
			"Daily limit of %d messages reached. Upgrade to premium for unlimited chatting, or come back tomorrow.",
			DailyMessageLimit))
	}
	return nil
}

// CanCreateChat rejects with a 429 once a non-premium user has
// MaxActiveChats concurrent chats.
func (s *EntitlementService) CanCreateChat(userID uuid.UUID) error {
	premium, err := s.isPremium(userID)
	if err != nil {
		return errors.LogAndReturn500(err)
	}
	if premium {
		return nil
	}

	count, err := s.chats.CountChatsByUserIDFromDB(userID)
	if err != nil {
		return errors.LogAndReturn500(fmt.Errorf("failed to count chats: %w", err))
	}
	if count >= MaxActiveChats {
		return errors.New429Error(fmt.Sprintf(
			"You can keep up to %d chats on the free plan. Delete one or upgrade to premium.",
			MaxActiveChats))
	}
	return nil
}
