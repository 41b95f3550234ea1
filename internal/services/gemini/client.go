package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	responseMIMEJSON = "application/json"
	defaultMaxTokens = 300
)

// Config captures the Gemini API settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	// Endpoint overrides the Generative Language API endpoint when set.
	Endpoint string
}

// Generator is satisfied by *genai.GenerativeModel.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client produces JSON completions from a Gemini model.
type Client struct {
	client *genai.Client
	gen    Generator
}

// Option customizes the client.
type Option func(*Client)

// WithGenerator replaces the model used to generate content.
func WithGenerator(gen Generator) Option {
	return func(c *Client) {
		if gen != nil {
			c.gen = gen
		}
	}
}

// NewClient dials the Gemini API with an API key.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.gen != nil {
		return c, nil
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model required")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = responseMIMEJSON
	model.SetTemperature(0)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))

	c.client = client
	c.gen = model
	return c, nil
}

// Close releases the underlying gRPC/HTTP connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// CompleteJSON sends the prompts and returns the model's text reply.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", errors.New("gemini complete: user prompt required")
	}

	// The model is shared across requests, so the system prompt travels as a
	// leading part instead of model.SystemInstruction.
	parts := []genai.Part{genai.Text(userPrompt)}
	if systemPrompt != "" {
		parts = []genai.Part{genai.Text(systemPrompt), genai.Text(userPrompt)}
	}

	resp, err := c.gen.GenerateContent(ctx, parts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("gemini complete: generate: %w", err)
	}
	content := responseText(resp)
	if content == "" {
		return "", fmt.Errorf("gemini complete: empty content (finish_reason=%s)", finishReason(resp))
	}
	return content, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if trimmed := strings.TrimSpace(b.String()); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "none"
	}
	return resp.Candidates[0].FinishReason.String()
}
