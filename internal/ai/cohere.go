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

const cohereModelName = "command-r"

// CohereProvider talks to Cohere's /v1/chat endpoint. Like Gemini it is a
// chat-with-history backend: prior turns go into chat_history and the
// newest user message is the message field. The system prompt maps to the
// preamble field and the assistant role is named CHATBOT.
type CohereProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCohereProvider(apiKey string) *CohereProvider {
	return &CohereProvider{
		baseURL: "https://api.cohere.ai/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type cohereHistoryMsg struct {
	Role    string `json:"role"` // USER | CHATBOT
	Message string `json:"message"`
}

type cohereChatReq struct {
	Model       string             `json:"model"`
	Preamble    string             `json:"preamble,omitempty"`
	ChatHistory []cohereHistoryMsg `json:"chat_history,omitempty"`
	Message     string             `json:"message"`
}

type cohereChatResp struct {
	Text    string `json:"text"`
	Message string `json:"message,omitempty"` // error detail on non-200
}

func (p *CohereProvider) Chat(ctx context.Context, messages []Message, systemPrompt, language string) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("cohere: empty conversation")
	}

	history := make([]cohereHistoryMsg, 0, len(messages)-1)
	for _, m := range messages[:len(messages)-1] {
		history = append(history, cohereHistoryMsg{Role: cohereRole(m.Role), Message: m.Content})
	}

	req := cohereChatReq{
		Model:       cohereModelName,
		Preamble:    systemPrompt,
		ChatHistory: history,
		Message:     messages[len(messages)-1].Content,
	}

	resp, err := p.post(ctx, "/chat", req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (p *CohereProvider) Translate(ctx context.Context, word, targetLanguage string) (string, error) {
	req := cohereChatReq{
		Model:   cohereModelName,
		Message: translationPrompt(word, targetLanguage),
	}
	resp, err := p.post(ctx, "/chat", req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *CohereProvider) post(ctx context.Context, path string, body cohereChatReq) (*cohereChatResp, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(p.baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("cohere: status %d: %s", resp.StatusCode, msg)
	}

	var decoded cohereChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Text == "" {
		return nil, errors.New("cohere: empty response")
	}
	return &decoded, nil
}

func cohereRole(role string) string {
	if role == "assistant" {
		return "CHATBOT"
	}
	return "USER"
}
