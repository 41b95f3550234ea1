package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeLLM is an OpenRouter-compatible chat completions server that answers
// every request with a fixed reply.
type FakeLLM struct {
	server *httptest.Server

	mu      sync.Mutex
	reply   string
	status  int
	prompts []string
}

// NewFakeLLM starts a fake model server that returns reply as message content.
func NewFakeLLM(t testing.TB, reply string) *FakeLLM {
	t.Helper()
	fake := &FakeLLM{reply: reply}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.server.Close)
	return fake
}

// URL is the chat completions endpoint to configure as llm.base_url.
func (f *FakeLLM) URL() string {
	return f.server.URL
}

// SetReply changes the content returned by later requests.
func (f *FakeLLM) SetReply(reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = reply
}

// FailWith makes later requests answer with status.
func (f *FakeLLM) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// Prompts returns the user prompts received so far.
func (f *FakeLLM) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Calls counts requests received.
func (f *FakeLLM) Calls() int {
	return len(f.Prompts())
}

func (f *FakeLLM) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			f.prompts = append(f.prompts, msg.Content)
		}
	}
	reply, status := f.reply, f.status
	f.mu.Unlock()

	if status != 0 {
		writeFakeJSON(w, status, map[string]any{"error": map[string]any{"message": http.StatusText(status)}})
		return
	}
	writeFakeJSON(w, http.StatusOK, map[string]any{
		"choices": []any{
			map[string]any{
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			},
		},
	})
}
