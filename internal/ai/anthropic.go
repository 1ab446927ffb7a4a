package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicModelName = "claude-3-haiku-20240307"

// AnthropicProvider talks to Anthropic's /v1/messages endpoint: a stateless
// messages array with the system prompt carried in a separate top-level
// field. The target language is appended to the system field as a post-hoc
// hint; the role names match ours so no translation is needed.
type AnthropicProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		baseURL: "https://api.anthropic.com/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type anthropicMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicChatReq struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Messages  []anthropicMsg `json:"messages"`
}

type anthropicChatResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message, systemPrompt, language string) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("anthropic: empty conversation")
	}

	system := systemPrompt
	if language != "" {
		system = fmt.Sprintf("%s\n\nThe conversation language is %s.", systemPrompt, language)
	}

	out := make([]anthropicMsg, 0, len(messages))
	for _, m := range messages {
		out = append(out, anthropicMsg{Role: m.Role, Content: m.Content})
	}

	return p.post(ctx, anthropicChatReq{
		Model:     anthropicModelName,
		MaxTokens: 1024,
		System:    system,
		Messages:  out,
	})
}

func (p *AnthropicProvider) Translate(ctx context.Context, word, targetLanguage string) (string, error) {
	text, err := p.post(ctx, anthropicChatReq{
		Model:     anthropicModelName,
		MaxTokens: 256,
		Messages: []anthropicMsg{
			{Role: "user", Content: translationPrompt(word, targetLanguage)},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *AnthropicProvider) post(ctx context.Context, body anthropicChatReq) (string, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(p.baseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, msg)
	}

	var decoded anthropicChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Content) == 0 {
		return "", errors.New("anthropic: empty response")
	}

	var sb strings.Builder
	for _, c := range decoded.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic: no text content in response")
	}
	return sb.String(), nil
}
