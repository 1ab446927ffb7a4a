package services

import (
	"testing"
	"time"

	"lingozo_go_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ResponseCache{},
		&models.TranslationCache{},
	))
	return db
}

func TestResponseCacheKeyNormalization(t *testing.T) {
	chatID := uuid.New()

	assert.Equal(t,
		ResponseCacheKey(chatID, "Hola, ¿qué tal?"),
		ResponseCacheKey(chatID, "  HOLA, ¿QUÉ TAL?  "))

	assert.NotEqual(t,
		ResponseCacheKey(chatID, "hola"),
		ResponseCacheKey(uuid.New(), "hola"))
	assert.NotEqual(t,
		ResponseCacheKey(chatID, "hola"),
		ResponseCacheKey(chatID, "adiós"))

	// Hex sha256: fixed width regardless of message length.
	assert.Len(t, ResponseCacheKey(chatID, "x"), 64)
}

func TestResponseCacheRoundTrip(t *testing.T) {
	store := NewCacheStore(newTestDB(t))
	chatID := uuid.New()
	key := ResponseCacheKey(chatID, "hello there")
	now := time.Now()

	entry, err := store.GetResponseCacheDB(key, now)
	assert.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, store.PutResponseCacheDB(&models.ResponseCache{
		CacheKey:  key,
		ChatID:    chatID,
		Language:  "Spanish",
		Response:  []byte(`{"response":"¡Hola!"}`),
		ExpiresAt: now.Add(ResponseCacheTTL),
	}))

	entry, err = store.GetResponseCacheDB(key, now)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []byte(`{"response":"¡Hola!"}`), entry.Response)
	assert.Equal(t, 0, entry.HitCount)

	require.NoError(t, store.IncrementResponseHitDB(entry.ID))
	entry, err = store.GetResponseCacheDB(key, now)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.HitCount)
}

func TestResponseCacheExpiry(t *testing.T) {
	store := NewCacheStore(newTestDB(t))
	chatID := uuid.New()
	key := ResponseCacheKey(chatID, "stale question")
	expiresAt := time.Now().Add(ResponseCacheTTL)

	require.NoError(t, store.PutResponseCacheDB(&models.ResponseCache{
		CacheKey:  key,
		ChatID:    chatID,
		Response:  []byte(`{}`),
		ExpiresAt: expiresAt,
	}))

	entry, err := store.GetResponseCacheDB(key, expiresAt.Add(-time.Second))
	assert.NoError(t, err)
	assert.NotNil(t, entry)

	// Exactly at the expiry instant counts as expired.
	entry, err = store.GetResponseCacheDB(key, expiresAt)
	assert.NoError(t, err)
	assert.Nil(t, entry)

	entry, err = store.GetResponseCacheDB(key, expiresAt.Add(time.Second))
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTranslationCacheNormalizesWord(t *testing.T) {
	store := NewCacheStore(newTestDB(t))

	require.NoError(t, store.PutTranslationDB(&models.TranslationCache{
		Word:        "  Bonjour  ",
		Language:    "French",
		Translation: "Hello; the standard daytime greeting.",
	}))

	entry, err := store.GetTranslationDB("BONJOUR", "French")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "bonjour", entry.Word)
	assert.Equal(t, "Hello; the standard daytime greeting.", entry.Translation)

	// Same word in another language is a distinct entry.
	entry, err = store.GetTranslationDB("bonjour", "German")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestTranslationCacheHitCount(t *testing.T) {
	store := NewCacheStore(newTestDB(t))

	require.NoError(t, store.PutTranslationDB(&models.TranslationCache{
		Word:        "gato",
		Language:    "Spanish",
		Translation: "Cat.",
	}))

	entry, err := store.GetTranslationDB("gato", "Spanish")
	require.NoError(t, err)
	require.NotNil(t, entry)

	require.NoError(t, store.IncrementTranslationHitDB(entry.ID))
	require.NoError(t, store.IncrementTranslationHitDB(entry.ID))

	entry, err = store.GetTranslationDB("gato", "Spanish")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.HitCount)
}
