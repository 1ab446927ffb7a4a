package services_test

import (
	"testing"

	apperrors "lingozo_go_backend/internal/errors"
	"lingozo_go_backend/internal/models"
	"lingozo_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCanSendMessageUnderLimit(t *testing.T) {
	users := new(MockUserStore)
	chats := new(MockChatStore)
	service := services.NewEntitlementService(users, chats)
	userID := uuid.New()
	chatID := uuid.New()

	users.On("GetUserByIDFromDB", userID).Return(&models.User{ID: userID}, nil)
	chats.On("CountUserMessagesSinceDB", chatID, mock.AnythingOfType("time.Time")).
		Return(int64(services.DailyMessageLimit-1), nil)

	assert.NoError(t, service.CanSendMessage(chatID, userID))
}

func TestCanSendMessageAtLimit(t *testing.T) {
	users := new(MockUserStore)
	chats := new(MockChatStore)
	service := services.NewEntitlementService(users, chats)
	userID := uuid.New()
	chatID := uuid.New()

	users.On("GetUserByIDFromDB", userID).Return(&models.User{ID: userID}, nil)
	chats.On("CountUserMessagesSinceDB", chatID, mock.AnythingOfType("time.Time")).
		Return(int64(services.DailyMessageLimit), nil)

	err := service.CanSendMessage(chatID, userID)
	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, 429, customErr.StatusCode)
	assert.Contains(t, customErr.Message, "Daily limit")
}

func TestCanSendMessagePremiumBypassesLimit(t *testing.T) {
	users := new(MockUserStore)
	chats := new(MockChatStore)
	service := services.NewEntitlementService(users, chats)
	userID := uuid.New()
	chatID := uuid.New()

	users.On("GetUserByIDFromDB", userID).Return(&models.User{ID: userID, IsPremium: true}, nil)

	assert.NoError(t, service.CanSendMessage(chatID, userID))
	chats.AssertNotCalled(t, "CountUserMessagesSinceDB", mock.Anything, mock.Anything)
}

func TestCanSendMessageMissingUserIsNotPremium(t *testing.T) {
	users := new(MockUserStore)
	chats := new(MockChatStore)
	service := services.NewEntitlementService(users, chats)
	userID := uuid.New()
	chatID := uuid.New()

	users.On("GetUserByIDFromDB", userID).Return(nil, nil)
	chats.On("CountUserMessagesSinceDB", chatID, mock.AnythingOfType("time.Time")).
		Return(int64(0), nil)

	assert.NoError(t, service.CanSendMessage(chatID, userID))
}

func TestCanCreateChatAtCap(t *testing.T) {
	users := new(MockUserStore)
	chats := new(MockChatStore)
	service := services.NewEntitlementService(users, chats)
	userID := uuid.New()

	users.On("GetUserByIDFromDB", userID).Return(&models.User{ID: userID}, nil)
	chats.On("CountChatsByUserIDFromDB", userID).Return(int64(services.MaxActiveChats), nil)

	err := service.CanCreateChat(userID)
	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, 429, customErr.StatusCode)
}

func TestCanCreateChatPremiumHasNoCap(t *testing.T) {
	users := new(MockUserStore)
	chats := new(MockChatStore)
	service := services.NewEntitlementService(users, chats)
	userID := uuid.New()

	users.On("GetUserByIDFromDB", userID).Return(&models.User{ID: userID, IsPremium: true}, nil)

	assert.NoError(t, service.CanCreateChat(userID))
	chats.AssertNotCalled(t, "CountChatsByUserIDFromDB", mock.Anything)
}
