package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/bedrockruntime"
)

const (
	anthropicVersion   = "bedrock-2023-05-31"
	contentTypeJSON    = "application/json"
	defaultMaxTokens   = 300
	defaultHTTPTimeout = 30 * time.Second
)

// Config captures the credentials and model settings for Bedrock Runtime.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Model           string
	MaxTokens       int
	TimeoutSeconds  int
	// Endpoint overrides the regional Bedrock Runtime endpoint when set.
	Endpoint string
}

// InvokeAPI is the subset of the Bedrock Runtime client used here.
type InvokeAPI interface {
	InvokeModelWithContext(ctx aws.Context, input *bedrockruntime.InvokeModelInput, opts ...request.Option) (*bedrockruntime.InvokeModelOutput, error)
}

// Client sends Anthropic messages requests through Bedrock Runtime.
type Client struct {
	cfg Config
	api InvokeAPI
}

// Option customizes the client.
type Option func(*Client)

// WithAPI replaces the Bedrock Runtime client, typically with a fake in tests.
func WithAPI(api InvokeAPI) Option {
	return func(c *Client) {
		if api != nil {
			c.api = api
		}
	}
}

// NewClient builds a Bedrock client with static credentials.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.Region = strings.TrimSpace(cfg.Region)
	cfg.AccessKeyID = strings.TrimSpace(cfg.AccessKeyID)
	cfg.SecretAccessKey = strings.TrimSpace(cfg.SecretAccessKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	client := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(client)
	}
	if client.api != nil {
		return client, nil
	}

	if cfg.Region == "" {
		return nil, errors.New("bedrock: region required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("bedrock: access key id and secret access key required")
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		HTTPClient:  &http.Client{Timeout: timeout},
		MaxRetries:  aws.Int(0),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("bedrock: create session: %w", err)
	}
	client.api = bedrockruntime.New(sess)
	return client, nil
}

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system,omitempty"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// CompleteJSON sends the prompts as an Anthropic messages request and returns
// the concatenated text blocks of the reply.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", errors.New("bedrock complete: user prompt required")
	}
	if c.cfg.Model == "" {
		return "", errors.New("bedrock complete: model required")
	}

	body, err := json.Marshal(messagesRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.cfg.MaxTokens,
		System:           systemPrompt,
		Temperature:      0,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: userPrompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("bedrock complete: encode body: %w", err)
	}

	out, err := c.api.InvokeModelWithContext(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.cfg.Model),
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
		Body:        body,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("bedrock complete: invoke %s: %w", c.cfg.Model, err)
	}
	if out == nil {
		return "", errors.New("bedrock complete: nil response")
	}

	var parsed messagesResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return "", fmt.Errorf("bedrock complete: decode response: %w", err)
	}
	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(text.String())
	if content == "" {
		return "", fmt.Errorf("bedrock complete: empty content (stop_reason=%q)", parsed.StopReason)
	}
	return content, nil
}
