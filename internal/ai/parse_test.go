package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAIResponseSingleMessage(t *testing.T) {
	raw := `{"response": "¡Hola! ¿Cómo estás?", "corrections": [{"incorrect": "como estas", "correction": "cómo estás"}], "grammarNote": {"title": "Accent marks in questions", "content": "Question words carry a written accent.", "category": "orthography"}}`

	parsed := ParseAIResponse(raw)

	assert.False(t, parsed.IsMultiMessage)
	assert.Equal(t, "¡Hola! ¿Cómo estás?", parsed.Response)
	assert.Empty(t, parsed.Messages)
	if assert.Len(t, parsed.Corrections, 1) {
		assert.Equal(t, "como estas", parsed.Corrections[0].Incorrect)
		assert.Equal(t, "cómo estás", parsed.Corrections[0].Correction)
	}
	if assert.NotNil(t, parsed.GrammarNote) {
		assert.Equal(t, "Accent marks in questions", parsed.GrammarNote.Title)
	}
	assert.Nil(t, parsed.MusicRecommendation)
}

func TestParseAIResponseMultiMessage(t *testing.T) {
	raw := `{"messages": [{"content": "Salut !"}, {"content": ""}, {"content": "Tu as passé une bonne journée ?"}], "musicRecommendation": {"title": "La Vie en Rose", "artist": "Édith Piaf", "reason": "Classic, slow vocals", "difficulty": "beginner", "genre": "chanson", "language": "French"}}`

	parsed := ParseAIResponse(raw)

	assert.True(t, parsed.IsMultiMessage)
	assert.Equal(t, []string{"Salut !", "Tu as passé une bonne journée ?"}, parsed.Messages)
	assert.NotNil(t, parsed.Corrections)
	assert.Empty(t, parsed.Corrections)
	if assert.NotNil(t, parsed.MusicRecommendation) {
		assert.Equal(t, "Édith Piaf", parsed.MusicRecommendation.Artist)
	}
}

func TestParseAIResponseEmptyMessagesArray(t *testing.T) {
	parsed := ParseAIResponse(`{"messages": []}`)

	assert.True(t, parsed.IsMultiMessage)
	assert.Empty(t, parsed.Messages)
	assert.Empty(t, parsed.Response)
}

func TestParseAIResponseFencedCodeBlock(t *testing.T) {
	raw := "Here is my reply:\n```json\n{\"response\": \"Guten Tag!\"}\n```\nHope that helps."

	parsed := ParseAIResponse(raw)

	assert.False(t, parsed.IsMultiMessage)
	assert.Equal(t, "Guten Tag!", parsed.Response)
}

func TestParseAIResponseJSONEmbeddedInCommentary(t *testing.T) {
	raw := `Sure! {"response": "Ciao, come va?", "corrections": []} Let me know if you need more.`

	parsed := ParseAIResponse(raw)

	assert.Equal(t, "Ciao, come va?", parsed.Response)
	assert.Empty(t, parsed.Corrections)
}

func TestParseAIResponsePlainText(t *testing.T) {
	parsed := ParseAIResponse("Just chatting, no JSON here")

	assert.False(t, parsed.IsMultiMessage)
	assert.Equal(t, "Just chatting, no JSON here", parsed.Response)
	assert.NotNil(t, parsed.Corrections)
	assert.Empty(t, parsed.Corrections)
	assert.Nil(t, parsed.GrammarNote)
	assert.Nil(t, parsed.MusicRecommendation)
}

func TestParseAIResponseMalformedJSONFallsBackToText(t *testing.T) {
	raw := `{"response": "truncated mid-stream`

	parsed := ParseAIResponse(raw)

	assert.Equal(t, "truncated mid-stream", parsed.Response)
}

func TestParsedResponseSerializationRoundTrip(t *testing.T) {
	original := ParseAIResponse(`{"messages": [{"content": "Hej!"}, {"content": "Hur mår du?"}], "corrections": [{"incorrect": "hejsan", "correction": "hej"}]}`)

	payload, err := json.Marshal(original)
	assert.NoError(t, err)

	var restored ParsedResponse
	assert.NoError(t, json.Unmarshal(payload, &restored))
	assert.Equal(t, original, restored)
}

func TestParseAIResponseEmptyResponseFallsBackToRaw(t *testing.T) {
	parsed := ParseAIResponse(`{"response": ""}`)

	assert.Equal(t, `{"response": ""}`, parsed.Response)
}
