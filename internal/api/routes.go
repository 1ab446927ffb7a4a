package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"lingozo_go_backend/internal/auth"
	apperrors "lingozo_go_backend/internal/errors"
	"lingozo_go_backend/internal/models"
	"lingozo_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

// Handlers bundles the services the HTTP surface needs.
type Handlers struct {
	ChatTurns    *services.ChatTurnService
	Translate    *services.TranslateService
	Proactive    *services.ProactiveService
	Chats        services.ChatStore
	Users        services.UserStore
	Entitlements services.EntitlementChecker
	Stripe       *services.StripeService
}

func SetupRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api", auth.AuthMiddleware())
	{
		api.POST("/chat", h.sendChatMessage)
		api.POST("/translate", h.translateWord)
		api.POST("/proactive", h.maybeSendProactive)

		api.POST("/chats", h.createChat)
		api.GET("/chats", h.listChats)
		api.PATCH("/chats/:chat_id", h.renameChat)
		api.DELETE("/chats/:chat_id", h.deleteChat)
		api.GET("/chats/:chat_id/messages", h.listMessages)
		api.POST("/chats/:chat_id/read", h.markMessagesRead)
		api.GET("/chats/:chat_id/grammar-notes", h.listGrammarNotes)
		api.DELETE("/chats/:chat_id/grammar-notes/:note_id", h.deleteGrammarNote)
		api.GET("/chats/:chat_id/music", h.listMusicRecommendations)

		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.updateSettings)

		api.POST("/premium/checkout", h.createPremiumCheckout)
	}

	// Stripe calls the webhook unauthenticated; the signature header is the
	// credential.
	r.POST("/api/stripe/webhook", h.stripeWebhook)
}

func currentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return nil, false
	}
	userModel, ok := user.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast user to *models.User"})
		return nil, false
	}
	return userModel, true
}

// respondError flattens the error taxonomy into the {error: string} shape
// the chat client expects, preserving the status code.
func respondError(c *gin.Context, err error) {
	if customErr, ok := err.(*apperrors.CustomError); ok {
		c.JSON(customErr.StatusCode, gin.H{"error": customErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
}

// ownedChat loads the chat from the path param and rejects access unless the
// requester owns it.
func (h *Handlers) ownedChat(c *gin.Context) (*models.Chat, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		respondError(c, apperrors.New400Error("Invalid chat id"))
		return nil, false
	}
	chat, err := h.Chats.GetChatByIDFromDB(chatID)
	if err != nil || chat.UserID != user.ID {
		respondError(c, apperrors.New404Error("Chat not found"))
		return nil, false
	}
	return chat, true
}

func (h *Handlers) sendChatMessage(c *gin.Context) {
	var request struct {
		ChatID      string `json:"chatId" binding:"required"`
		Message     string `json:"message" binding:"required"`
		Language    string `json:"language" binding:"required"`
		FeatureMode string `json:"featureMode"`
		ReplyToID   string `json:"replyToId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.New400Error(err.Error()))
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	chatID, err := uuid.Parse(request.ChatID)
	if err != nil {
		respondError(c, apperrors.New400Error("Invalid chat id"))
		return
	}

	chat, err := h.Chats.GetChatByIDFromDB(chatID)
	if err != nil || chat.UserID != user.ID {
		respondError(c, apperrors.New404Error("Chat not found"))
		return
	}

	req := services.TurnRequest{
		ChatID:      chatID,
		Message:     request.Message,
		Language:    request.Language,
		FeatureMode: request.FeatureMode,
	}
	if request.ReplyToID != "" {
		replyTo, err := uuid.Parse(request.ReplyToID)
		if err != nil {
			respondError(c, apperrors.New400Error("Invalid replyToId"))
			return
		}
		req.ReplyToID = &replyTo
	}

	if err := h.ChatTurns.HandleTurn(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	// The reply itself arrives over the realtime feed.
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) translateWord(c *gin.Context) {
	var request struct {
		Word           string `json:"word" binding:"required"`
		TargetLanguage string `json:"targetLanguage" binding:"required"`
		ChatID         string `json:"chatId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.New400Error(err.Error()))
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	translation, err := h.Translate.Translate(c.Request.Context(), user.ID, request.Word, request.TargetLanguage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"translation": translation})
}

func (h *Handlers) maybeSendProactive(c *gin.Context) {
	var request struct {
		ChatID string `json:"chatId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.New400Error(err.Error()))
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	chatID, err := uuid.Parse(request.ChatID)
	if err != nil {
		respondError(c, apperrors.New400Error("Invalid chat id"))
		return
	}
	chat, err := h.Chats.GetChatByIDFromDB(chatID)
	if err != nil || chat.UserID != user.ID {
		respondError(c, apperrors.New404Error("Chat not found"))
		return
	}

	result, err := h.Proactive.MaybeSend(c.Request.Context(), chatID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.ShouldSend {
		c.JSON(http.StatusOK, gin.H{"shouldSend": false, "reason": result.Reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shouldSend": true, "message": result.Message})
}

func (h *Handlers) createChat(c *gin.Context) {
	var request struct {
		Title    string `json:"title"`
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.New400Error(err.Error()))
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.Entitlements.CanCreateChat(user.ID); err != nil {
		respondError(c, err)
		return
	}

	title := request.Title
	if title == "" {
		title = "New chat"
	}
	chat, err := h.Chats.CreateChatDB(user.ID, title, request.Language)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *Handlers) listChats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	chats, err := h.Chats.GetChatsByUserIDFromDB(user.ID)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *Handlers) renameChat(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	var request struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.New400Error(err.Error()))
		return
	}
	if err := h.Chats.RenameChatDB(chat.ID, request.Title); err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) deleteChat(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	if err := h.Chats.DeleteChatDB(chat.ID); err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) listMessages(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	messages, err := h.Chats.GetMessagesByChatIDFromDB(chat.ID)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handlers) markMessagesRead(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	if err := h.Chats.MarkMessagesReadDB(chat.ID, time.Now().UTC()); err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) listGrammarNotes(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	notes, err := h.Chats.GetGrammarNotesByChatIDFromDB(chat.ID)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"grammar_notes": notes})
}

func (h *Handlers) deleteGrammarNote(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	noteID, err := uuid.Parse(c.Param("note_id"))
	if err != nil {
		respondError(c, apperrors.New400Error("Invalid note id"))
		return
	}
	if err := h.Chats.DeleteGrammarNoteDB(chat.ID, noteID); err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) listMusicRecommendations(c *gin.Context) {
	chat, ok := h.ownedChat(c)
	if !ok {
		return
	}
	recs, err := h.Chats.GetMusicRecommendationsByChatIDFromDB(chat.ID)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"music_recommendations": recs})
}

func (h *Handlers) getSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	settings, err := h.Users.GetSettingsByUserIDFromDB(user.ID)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	if settings == nil {
		settings = &models.UserSettings{UserID: user.ID}
	}
	c.JSON(http.StatusOK, gin.H{
		"memes_enabled": settings.MemesOn(),
		"music_enabled": settings.MusicOn(),
		"tts_enabled":   settings.TTSEnabled == nil || *settings.TTSEnabled,
		"stt_enabled":   settings.STTEnabled == nil || *settings.STTEnabled,
		"provider":      settings.Provider,
	})
}

func (h *Handlers) updateSettings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var request struct {
		MemesEnabled    *bool  `json:"memes_enabled"`
		MusicEnabled    *bool  `json:"music_enabled"`
		TTSEnabled      *bool  `json:"tts_enabled"`
		STTEnabled      *bool  `json:"stt_enabled"`
		Provider        string `json:"provider"`
		GeminiAPIKey    string `json:"gemini_api_key"`
		CohereAPIKey    string `json:"cohere_api_key"`
		AnthropicAPIKey string `json:"anthropic_api_key"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, apperrors.New400Error(err.Error()))
		return
	}

	settings := &models.UserSettings{
		UserID:          user.ID,
		MemesEnabled:    request.MemesEnabled,
		MusicEnabled:    request.MusicEnabled,
		TTSEnabled:      request.TTSEnabled,
		STTEnabled:      request.STTEnabled,
		Provider:        request.Provider,
		GeminiAPIKey:    request.GeminiAPIKey,
		CohereAPIKey:    request.CohereAPIKey,
		AnthropicAPIKey: request.AnthropicAPIKey,
	}
	if err := h.Users.UpsertSettingsDB(settings); err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) createPremiumCheckout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	priceID := os.Getenv("STRIPE_PREMIUM_PRICE_ID")
	if priceID == "" {
		apperrors.HandleError(c, apperrors.New400Error("Premium purchases are not configured"))
		return
	}
	session, err := h.Stripe.CreatePremiumCheckoutSession(user.ID.String(), priceID)
	if err != nil {
		apperrors.HandleError(c, apperrors.LogAndReturn500(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": session.ID})
}

func (h *Handlers) stripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	signatureHeader := c.GetHeader("Stripe-Signature")
	event, err := h.Stripe.HandleWebhook(payload, signatureHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to verify webhook signature"})
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse checkout session"})
			return
		}
		userID, err := uuid.Parse(session.ClientReferenceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user reference"})
			return
		}
		if err := h.Users.SetPremiumDB(userID, true); err != nil {
			apperrors.HandleError(c, apperrors.LogAndReturn500(err))
			return
		}
	default:
		// Other event types are acknowledged and ignored.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
