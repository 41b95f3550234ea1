// Package services defines shared utilities consumed by the recommendation
// flow and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and the serving
//     surface (web, api, cli) for logging.
//   - Structured error markers plus the Wrap helper that let callers decide
//     whether a failure degrades the request (parse problems) or is shown to
//     the user (catalog failures).
//
// Provider clients live in subpackages (llm, bedrock, gemini).
package services
