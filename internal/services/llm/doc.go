// Package llm provides an OpenRouter chat client that returns JSON-only
// completions.
//
// The client sends a system prompt and a user prompt to the configured model
// with response_format=json_object and returns the raw content of the first
// choice. Providers that answer with the streaming schema, legacy completion
// text, or tool/function-call arguments are tolerated.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive JSON response.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode model output, peeling code fences and prose.
//
// Requests are issued once. Callers that need a fallback (the recommendation
// flow treats any interpreter failure as "no model filters") handle it above
// this package.
package llm
