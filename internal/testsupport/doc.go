// Package testsupport provides test fixtures shared across packages: a config
// builder and httptest fakes for TMDB and an OpenRouter-compatible model.
package testsupport
