// Package logging assembles structured slog loggers and formatting helpers used
// across Marquee.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handling code tags
// log lines with correlation IDs and the originating surface. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
