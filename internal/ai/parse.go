package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// GrammarNote and MusicRecommendation mirror the optional attachments the
// model may emit alongside a reply.
type GrammarNote struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type MusicRecommendation struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Reason     string `json:"reason"`
	Difficulty string `json:"difficulty"`
	Genre      string `json:"genre"`
	Language   string `json:"language"`
}

type Correction struct {
	Incorrect  string `json:"incorrect"`
	Correction string `json:"correction"`
}

// ParsedResponse is the typed result of a chat turn. Either a single reply
// (Response) or a burst of short replies (Messages, with IsMultiMessage
// set). The attachments apply to the turn as a whole, not per sub-message.
type ParsedResponse struct {
	Response            string               `json:"response"`
	Messages            []string             `json:"messages,omitempty"`
	IsMultiMessage      bool                 `json:"isMultiMessage"`
	Corrections         []Correction         `json:"corrections"`
	GrammarNote         *GrammarNote         `json:"grammarNote"`
	MusicRecommendation *MusicRecommendation `json:"musicRecommendation"`
}

// wire matches both documented top-level JSON shapes.
type wire struct {
	Messages []struct {
		Content string `json:"content"`
	} `json:"messages"`
	Response            string               `json:"response"`
	Corrections         []Correction         `json:"corrections"`
	GrammarNote         *GrammarNote         `json:"grammarNote"`
	MusicRecommendation *MusicRecommendation `json:"musicRecommendation"`
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ParseAIResponse turns raw model text into a ParsedResponse. Models often
// wrap the JSON in commentary or a code fence, so extraction is layered:
// fenced block first, then the outermost brace span, then a plain-text
// fallback. Parse failure is degradation, never an error.
func ParseAIResponse(raw string) ParsedResponse {
	if payload, ok := extractJSON(raw); ok {
		var w wire
		if err := json.Unmarshal([]byte(payload), &w); err == nil {
			return fromWire(w, raw)
		}
	}
	return plainTextResult(raw)
}

// extractJSON locates the JSON object inside raw text: inside a fenced code
// block if present, else the outermost {...} span.
func extractJSON(raw string) (string, bool) {
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1], true
	}
	return "", false
}

func fromWire(w wire, raw string) ParsedResponse {
	result := ParsedResponse{
		Corrections:         w.Corrections,
		GrammarNote:         w.GrammarNote,
		MusicRecommendation: w.MusicRecommendation,
	}
	if result.Corrections == nil {
		result.Corrections = []Correction{}
	}

	if w.Messages != nil {
		result.IsMultiMessage = true
		for _, m := range w.Messages {
			if content := strings.TrimSpace(m.Content); content != "" {
				result.Messages = append(result.Messages, content)
			}
		}
		return result
	}

	result.Response = strings.TrimSpace(w.Response)
	if result.Response == "" {
		result.Response = strings.TrimSpace(raw)
	}
	return result
}

var partialResponseRe = regexp.MustCompile(`^\s*\{?\s*"response"\s*:\s*"?`)

// plainTextResult is the last layer: no parseable JSON at all. A truncated
// {"response": ... fragment is stripped so the user never sees raw JSON
// punctuation.
func plainTextResult(raw string) ParsedResponse {
	text := strings.TrimSpace(raw)
	if partialResponseRe.MatchString(text) {
		text = partialResponseRe.ReplaceAllString(text, "")
		text = strings.TrimRight(text, "\"}` \n")
		text = strings.TrimSpace(text)
	}
	return ParsedResponse{
		Response:    text,
		Corrections: []Correction{},
	}
}
