package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

type fakeGenerator struct {
	parts []genai.Part
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, genai.Text(text))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestCompleteJSONJoinsTextParts(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse(`{"decade":`, `"1990s"}`)}
	client, err := NewClient(context.Background(), Config{Model: "gemini-test"}, WithGenerator(fake))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	content, err := client.CompleteJSON(context.Background(), "rules", "something from the 90s")
	if err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if content != `{"decade":"1990s"}` {
		t.Fatalf("unexpected content %q", content)
	}
	if len(fake.parts) != 2 || fake.parts[0] != genai.Text("rules") {
		t.Fatalf("expected system prompt as leading part, got %v", fake.parts)
	}
}

func TestCompleteJSONWithoutSystemPrompt(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("{}")}
	client, _ := NewClient(context.Background(), Config{}, WithGenerator(fake))
	if _, err := client.CompleteJSON(context.Background(), " ", "prompt"); err != nil {
		t.Fatalf("CompleteJSON: %v", err)
	}
	if len(fake.parts) != 1 {
		t.Fatalf("expected a single part, got %d", len(fake.parts))
	}
}

func TestCompleteJSONErrors(t *testing.T) {
	cases := []struct {
		name string
		fake *fakeGenerator
		want string
	}{
		{name: "generate failure", fake: &fakeGenerator{err: errors.New("quota exceeded")}, want: "quota exceeded"},
		{name: "no candidates", fake: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, want: "empty content"},
		{name: "nil response", fake: &fakeGenerator{}, want: "empty content"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := NewClient(context.Background(), Config{}, WithGenerator(tc.fake))
			_, err := client.CompleteJSON(context.Background(), "sys", "prompt")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{Model: "gemini-test"}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNewClientRequiresModel(t *testing.T) {
	_, err := NewClient(context.Background(), Config{APIKey: "key", Model: "  "})
	if err == nil || !strings.Contains(err.Error(), "model required") {
		t.Fatalf("expected model error, got %v", err)
	}
}

func TestNewClientWithGeneratorSkipsDial(t *testing.T) {
	client, err := NewClient(context.Background(), Config{}, WithGenerator(&fakeGenerator{}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.client != nil {
		t.Fatal("no API connection expected with an injected generator")
	}
}

func TestCloseWithoutClient(t *testing.T) {
	client, _ := NewClient(context.Background(), Config{}, WithGenerator(&fakeGenerator{}))
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
