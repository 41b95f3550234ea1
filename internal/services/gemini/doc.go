// Package gemini adapts Google's Gemini models to the JSON completion contract
// used by the prompt interpreter. Responses are requested with the
// application/json MIME type.
package gemini
