package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const snippetLimit = 160

// DecodeLLMJSON unmarshals model output into target. Models often wrap the
// object in a markdown fence or a sentence of prose, so those are peeled off
// before giving up.
func DecodeLLMJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	var firstErr error
	tried := make(map[string]bool, 3)
	for _, candidate := range jsonCandidates(trimmed) {
		if candidate == "" || tried[candidate] {
			continue
		}
		tried[candidate] = true
		err := json.Unmarshal([]byte(candidate), target)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return fmt.Errorf("%w (payload: %s)", firstErr, snippet(trimmed))
}

func jsonCandidates(content string) []string {
	unfenced := unfence(content)
	return []string{
		content,
		unfenced,
		enclosed(unfenced, "{", "}"),
		enclosed(unfenced, "[", "]"),
	}
}

// unfence strips a ```json ... ``` wrapper if present.
func unfence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	body := strings.TrimLeft(content[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

func enclosed(content, open, close string) string {
	start := strings.Index(content, open)
	end := strings.LastIndex(content, close)
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

// snippet collapses whitespace and truncates for error messages.
func snippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	if runes := []rune(clean); len(runes) > snippetLimit {
		return string(runes[:snippetLimit]) + "..."
	}
	return clean
}
