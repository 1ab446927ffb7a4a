package ai

import (
	"context"
	"errors"
)

// Message is one conversation turn, oldest-first when passed as history.
// Role is "user" or "assistant"; adapters translate to their backend's
// role naming internally.
type Message struct {
	Role    string
	Content string
}

// Provider is the interface every LLM backend must satisfy. The chat turn
// orchestrator only ever sees this interface; which backend answers is
// decided by the factory from the user's settings.
type Provider interface {
	// Chat sends the ordered conversation plus a system prompt and returns
	// the raw assistant text, unparsed. The language is only used by
	// backends that want a post-hoc language hint.
	Chat(ctx context.Context, messages []Message, systemPrompt, language string) (string, error)

	// Translate returns a short (1-2 sentence) translation of a single
	// word or phrase, trimmed of surrounding whitespace.
	Translate(ctx context.Context, word, targetLanguage string) (string, error)
}

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrMissingAPIKey       = errors.New("missing api key")
)
