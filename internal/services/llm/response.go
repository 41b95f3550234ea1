package llm

import "strings"

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Some OpenRouter upstreams answer with the streaming "delta" shape or the
// legacy completion "text" field even for non-streaming requests.
type choice struct {
	Message      reply  `json:"message"`
	Delta        reply  `json:"delta"`
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason"`
}

type reply struct {
	Content   string     `json:"content"`
	Refusal   string     `json:"refusal"`
	ToolCalls []toolCall `json:"tool_calls"`
}

type toolCall struct {
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

func (r reply) arguments() string {
	for _, call := range r.ToolCalls {
		if args := strings.TrimSpace(call.Function.Arguments); args != "" {
			return args
		}
	}
	return ""
}

// content returns the first non-empty payload across all choices, preferring
// message text over tool-call arguments.
func (r completionResponse) content() string {
	for _, ch := range r.Choices {
		for _, candidate := range []string{
			ch.Message.Content,
			ch.Delta.Content,
			ch.Text,
			ch.Message.arguments(),
			ch.Delta.arguments(),
		} {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func (r completionResponse) finishReason() string {
	for _, ch := range r.Choices {
		if reason := strings.TrimSpace(ch.FinishReason); reason != "" {
			return reason
		}
	}
	return ""
}

func (r completionResponse) refusal() string {
	for _, ch := range r.Choices {
		if text := strings.TrimSpace(ch.Message.Refusal + ch.Delta.Refusal); text != "" {
			return text
		}
	}
	return ""
}
